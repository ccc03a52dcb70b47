package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestWriteSnapshotFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval_results.json")
	results := []Result{
		{
			Name:                     "Primary (unigram)",
			VocabSize:                16000,
			RoundTripAccuracyPercent: 99.5,
			CompressionRatio:         4.2,
			Fertility:                1.3,
			TokensPerSecond:          120000,
			TotalTokens:              4200,
			AverageTokensPerText:     42,
			Success:                  true,
		},
		{Name: "broken", Error: "model file missing"},
	}
	if err := WriteSnapshot(path, results); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	for _, key := range []string{
		`"name"`, `"vocabSize"`, `"roundTripAccuracyPercent"`, `"compressionRatio"`,
		`"fertility"`, `"tokensPerSecond"`, `"totalTokens"`, `"averageTokensPerText"`,
		`"success"`, `"error"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Snapshot missing field %s", key)
		}
	}

	var decoded []Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "Primary (unigram)" || !decoded[0].Success {
		t.Errorf("Unexpected decoded results: %+v", decoded)
	}
}

func TestWriteSnapshotOmitsEmptyError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteSnapshot(path, []Result{{Name: "ok", Success: true}}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("Expected error field omitted when empty:\n%s", data)
	}
}

func TestWriteSnapshotBadPath(t *testing.T) {
	err := WriteSnapshot(filepath.Join(t.TempDir(), "no", "such", "dir.json"), nil)
	if err == nil {
		t.Errorf("Expected error for unwritable path")
	}
}
