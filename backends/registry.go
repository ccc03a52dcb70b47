package backends

import (
	"log/slog"
	"os"
	"path/filepath"

	"tokeval/harness"
)

// Comparison constructs every available comparison adapter from the model
// artifacts under modelsDir. Each candidate is attempted independently:
// construction failure (missing files, unavailable native library) is
// logged and the candidate skipped, so one absent backend never aborts the
// run. The character baseline needs no artifacts and always constructs.
//
// Expected layout under modelsDir:
//
//	gpt2/vocab.json + gpt2/merges.txt   byte-level BPE comparison
//	bert/vocab.txt                      wordpiece comparison
//	<name>/tokenizer.json               any extra HuggingFace comparison
func Comparison(modelsDir string, log *slog.Logger) []*harness.Adapter {
	type candidate struct {
		name      string
		construct func() (*harness.Adapter, error)
	}

	candidates := []candidate{
		{
			name: "Character-level (baseline)",
			construct: func() (*harness.Adapter, error) {
				return harness.NewAdapter("Character-level (baseline)", harness.KindCharacter, Character{}), nil
			},
		},
		{
			name: "GPT-2 (byte-level BPE)",
			construct: func() (*harness.Adapter, error) {
				b, err := NewByteLevelBPE(filepath.Join(modelsDir, "gpt2"))
				if err != nil {
					return nil, err
				}
				return harness.NewAdapter("GPT-2 (byte-level BPE)", harness.KindByteLevel, b,
					harness.WithApproximatePieces(),
				), nil
			},
		},
		{
			name: "BERT (wordpiece, uncased)",
			construct: func() (*harness.Adapter, error) {
				w, err := NewWordPiece(filepath.Join(modelsDir, "bert", "vocab.txt"), true)
				if err != nil {
					return nil, err
				}
				return harness.NewAdapter("BERT (wordpiece, uncased)", harness.KindWordPiece, w), nil
			},
		},
	}

	for _, extra := range extraTokenizerDirs(modelsDir) {
		extra := extra
		candidates = append(candidates, candidate{
			name: extra + " (tokenizer.json)",
			construct: func() (*harness.Adapter, error) {
				hf, err := NewHF(filepath.Join(modelsDir, extra, "tokenizer.json"))
				if err != nil {
					return nil, err
				}
				return harness.NewAdapter(extra+" (tokenizer.json)", harness.KindUnigram, hf), nil
			},
		})
	}

	var adapters []*harness.Adapter
	for _, c := range candidates {
		a, err := c.construct()
		if err != nil {
			log.Warn("comparison tokenizer unavailable", "name", c.name, "error", err)
			continue
		}
		adapters = append(adapters, a)
	}
	return adapters
}

// extraTokenizerDirs lists subdirectories of modelsDir holding a
// tokenizer.json, beyond the fixed gpt2/bert candidates.
func extraTokenizerDirs(modelsDir string) []string {
	entries, err := os.ReadDir(modelsDir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "gpt2" || e.Name() == "bert" {
			continue
		}
		if _, err := os.Stat(filepath.Join(modelsDir, e.Name(), "tokenizer.json")); err == nil {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs
}
