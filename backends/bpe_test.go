package backends

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tokeval/harness"
)

// writeBPEModel lays out a minimal vocab.json/merges.txt pair covering
// "hello world". "Ġ" (U+0120) is the byte-level remapping of the space byte.
func writeBPEModel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	vocab := `{"h":0,"e":1,"l":2,"o":3,"w":4,"r":5,"d":6,"Ġ":7,"lo":8}`
	if err := os.WriteFile(filepath.Join(dir, "vocab.json"), []byte(vocab), 0o644); err != nil {
		t.Fatalf("Failed to write vocab.json: %v", err)
	}
	merges := "#version: 0.2\nl o\n"
	if err := os.WriteFile(filepath.Join(dir, "merges.txt"), []byte(merges), 0o644); err != nil {
		t.Fatalf("Failed to write merges.txt: %v", err)
	}
	return dir
}

func TestByteLevelBPEEncodeIDs(t *testing.T) {
	b, err := NewByteLevelBPE(writeBPEModel(t))
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	// The "l o" merge turns h-e-l-l-o into h-e-l-lo.
	tokens, err := b.Encode("hello", harness.RepIDs)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []int{0, 1, 2, 8}
	if !reflect.DeepEqual(tokens.IDs, want) {
		t.Errorf("Expected ids %v, got %v", want, tokens.IDs)
	}
}

func TestByteLevelBPEPiecesAreDecodedPerID(t *testing.T) {
	b, err := NewByteLevelBPE(writeBPEModel(t))
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	tokens, err := b.Encode("hello", harness.RepPieces)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []string{"h", "e", "l", "lo"}
	if !reflect.DeepEqual(tokens.Pieces, want) {
		t.Errorf("Expected pieces %v, got %v", want, tokens.Pieces)
	}
}

func TestByteLevelBPERoundTrip(t *testing.T) {
	b, err := NewByteLevelBPE(writeBPEModel(t))
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	for _, text := range []string{"hello", "hello world", "world"} {
		tokens, err := b.Encode(text, harness.RepIDs)
		if err != nil {
			t.Fatalf("Encode %q: %v", text, err)
		}
		decoded, err := b.Decode(tokens)
		if err != nil {
			t.Fatalf("Decode %q: %v", text, err)
		}
		if decoded != text {
			t.Errorf("Round trip of %q produced %q", text, decoded)
		}
	}
}

func TestByteLevelBPESpaceRemapping(t *testing.T) {
	b, err := NewByteLevelBPE(writeBPEModel(t))
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}

	// " world" becomes a single chunk; its leading space maps to Ġ (id 7).
	tokens, err := b.Encode(" world", harness.RepIDs)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(tokens.IDs) == 0 || tokens.IDs[0] != 7 {
		t.Errorf("Expected leading id 7 for the space byte, got %v", tokens.IDs)
	}
}

func TestByteLevelBPEVocabSize(t *testing.T) {
	b, err := NewByteLevelBPE(writeBPEModel(t))
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if got := b.VocabSize(); got != 9 {
		t.Errorf("Expected vocab size 9, got %d", got)
	}
}

func TestNewByteLevelBPEMissingDir(t *testing.T) {
	if _, err := NewByteLevelBPE(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Errorf("Expected error for missing model directory")
	}
}
