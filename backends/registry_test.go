package backends

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"tokeval/harness"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adapterNames(adapters []*harness.Adapter) []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}

func TestComparisonEmptyModelsDir(t *testing.T) {
	adapters := Comparison(t.TempDir(), discardLogger())

	// Only the artifact-free baseline survives.
	if len(adapters) != 1 {
		t.Fatalf("Expected 1 adapter, got %d: %v", len(adapters), adapterNames(adapters))
	}
	if adapters[0].Kind() != harness.KindCharacter {
		t.Errorf("Expected character baseline, got %v", adapters[0].Kind())
	}
}

func TestComparisonWithGPT2Model(t *testing.T) {
	modelsDir := t.TempDir()
	gpt2 := filepath.Join(modelsDir, "gpt2")
	if err := os.Mkdir(gpt2, 0o755); err != nil {
		t.Fatalf("Failed to create model dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gpt2, "vocab.json"), []byte(`{"h":0}`), 0o644); err != nil {
		t.Fatalf("Failed to write vocab.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gpt2, "merges.txt"), []byte("#version: 0.2\n"), 0o644); err != nil {
		t.Fatalf("Failed to write merges.txt: %v", err)
	}

	adapters := Comparison(modelsDir, discardLogger())
	if len(adapters) != 2 {
		t.Fatalf("Expected 2 adapters, got %d: %v", len(adapters), adapterNames(adapters))
	}
	if adapters[1].Kind() != harness.KindByteLevel {
		t.Errorf("Expected byte-level adapter, got %v", adapters[1].Kind())
	}
	if !adapters[1].ApproximatePieces() {
		t.Errorf("Expected the byte-level adapter to flag approximate pieces")
	}
}

func TestComparisonWithWordPieceModel(t *testing.T) {
	modelsDir := t.TempDir()
	bert := filepath.Join(modelsDir, "bert")
	if err := os.Mkdir(bert, 0o755); err != nil {
		t.Fatalf("Failed to create model dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bert, "vocab.txt"), []byte("[UNK]\nhello\n"), 0o644); err != nil {
		t.Fatalf("Failed to write vocab.txt: %v", err)
	}

	adapters := Comparison(modelsDir, discardLogger())
	if len(adapters) != 2 {
		t.Fatalf("Expected 2 adapters, got %d: %v", len(adapters), adapterNames(adapters))
	}
	if adapters[1].Kind() != harness.KindWordPiece {
		t.Errorf("Expected wordpiece adapter, got %v", adapters[1].Kind())
	}
}
