package harness

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Result is the immutable evaluation record for one adapter. The JSON shape
// of the full result set is the run's sole persisted output, consumed
// downstream by an external charting tool.
type Result struct {
	Name                     string  `json:"name"`
	VocabSize                int     `json:"vocabSize"`
	RoundTripAccuracyPercent float64 `json:"roundTripAccuracyPercent"`
	CompressionRatio         float64 `json:"compressionRatio"`
	Fertility                float64 `json:"fertility"`
	TokensPerSecond          float64 `json:"tokensPerSecond"`
	TotalTokens              int     `json:"totalTokens"`
	AverageTokensPerText     float64 `json:"averageTokensPerText"`
	Success                  bool    `json:"success"`
	Error                    string  `json:"error,omitempty"`
}

// WriteSnapshot writes the result set as an indented JSON array. The caller
// decides whether a write failure is fatal; for the evaluation run it is
// only a warning since the console report has already been produced.
func WriteSnapshot(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
