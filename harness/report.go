package harness

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Reporter renders the console report. The output is for humans; its format
// is not a stability contract.
type Reporter struct {
	W       io.Writer
	Samples int // sample encodings shown for the primary adapter
}

// NewReporter returns a Reporter with the default sample count.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{W: w, Samples: 3}
}

// PrintStatistics renders the narrative report for the primary adapter.
func (r *Reporter) PrintStatistics(a *Adapter, ev Evaluation, corpus *Corpus) {
	r.rule(60)
	fmt.Fprintln(r.W, "TOKENIZER EVALUATION REPORT")
	r.rule(60)

	res := ev.Result

	fmt.Fprintln(r.W, "\nVocabulary:")
	fmt.Fprintf(r.W, "  - Size: %s\n", formatVocab(res.VocabSize))
	fmt.Fprintf(r.W, "  - Backend: %s\n", a.Kind())

	fmt.Fprintln(r.W, "\nCorpus:")
	fmt.Fprintf(r.W, "  - Lines: %s (%s)\n", formatCount(corpus.Len()), corpus.Source)
	fmt.Fprintf(r.W, "  - Fingerprint: %016x\n", corpus.Fingerprint())

	fmt.Fprintln(r.W, "\nRound-trip accuracy:")
	fmt.Fprintf(r.W, "  - %.2f%% (%d/%d)\n",
		res.RoundTripAccuracyPercent, ev.RoundTrip.Correct, ev.RoundTrip.Total)
	if a.NormalizesInput() {
		fmt.Fprintln(r.W, "  - NFKC-normalized matches count as correct for this model")
	}

	fmt.Fprintln(r.W, "\nCompression:")
	fmt.Fprintf(r.W, "  - Total tokens: %s\n", formatCount(res.TotalTokens))
	fmt.Fprintf(r.W, "  - Chars per token: %.2f\n", res.CompressionRatio)
	fmt.Fprintf(r.W, "  - Fertility: %.2f tokens/word\n", res.Fertility)
	fmt.Fprintf(r.W, "  - Throughput: %.0f tokens/s\n", res.TokensPerSecond)

	if ev.Stats != nil {
		fmt.Fprintln(r.W, "\nToken length:")
		fmt.Fprintf(r.W, "  - Average: %.2f characters\n", ev.Stats.AvgLen)
		fmt.Fprintf(r.W, "  - Min: %d, Max: %d\n", ev.Stats.MinLen, ev.Stats.MaxLen)

		if len(ev.Stats.Top) > 0 {
			fmt.Fprintf(r.W, "\nTop %d tokens:\n", len(ev.Stats.Top))
			for _, tc := range ev.Stats.Top {
				fmt.Fprintf(r.W, "  - %s: %s occurrences\n", displayPiece(tc.Piece), formatCount(tc.Count))
			}
		}
	}

	r.printSamples(a, ev.Lines)
	fmt.Fprintln(r.W)
	r.rule(60)
}

// printSamples shows the first N lines of the evaluation's collected piece
// lists; only the id sequence and its decode need fresh backend calls.
func (r *Reporter) printSamples(a *Adapter, perLine []LineTokens) {
	n := r.Samples
	if n > len(perLine) {
		n = len(perLine)
	}
	if n <= 0 {
		return
	}

	fmt.Fprintf(r.W, "\nSample encodings (first %d lines):\n", n)
	if a.ApproximatePieces() {
		fmt.Fprintln(r.W, "  (textual pieces are an approximate per-id view for this backend)")
	}
	for i, lt := range perLine[:n] {
		if lt.Err != nil {
			fmt.Fprintf(r.W, "\n  Sample %d: encode error: %v\n", i+1, lt.Err)
			continue
		}
		ids, err := a.Encode(lt.Line, RepIDs)
		if err != nil {
			fmt.Fprintf(r.W, "\n  Sample %d: encode error: %v\n", i+1, err)
			continue
		}
		decoded, err := a.Decode(ids)
		if err != nil {
			fmt.Fprintf(r.W, "\n  Sample %d: decode error: %v\n", i+1, err)
			continue
		}

		fmt.Fprintf(r.W, "\n  Sample %d:\n", i+1)
		fmt.Fprintf(r.W, "    Original: %s\n", truncate(lt.Line, 80))
		fmt.Fprintf(r.W, "    Pieces (%d): %s\n", len(lt.Pieces), previewPieces(lt.Pieces, 10))
		fmt.Fprintf(r.W, "    IDs (%d): %s\n", ids.Len(), previewIDs(ids.IDs, 10))
		fmt.Fprintf(r.W, "    Decoded: %s\n", truncate(decoded, 80))
		if decoded == lt.Line {
			fmt.Fprintln(r.W, "    Match: ✓")
		} else {
			fmt.Fprintln(r.W, "    Match: ✗")
		}
	}
}

// PrintComparison renders the ranked multi-column table, the failure
// listing, and the best performers.
func (r *Reporter) PrintComparison(results []Result) {
	fmt.Fprintln(r.W)
	r.rule(80)
	fmt.Fprintln(r.W, "TOKENIZER COMPARISON")
	r.rule(80)

	ranked := Rank(results)
	if len(ranked) == 0 {
		fmt.Fprintln(r.W, "No tokenizers could be evaluated successfully.")
	} else {
		table := tablewriter.NewWriter(r.W)
		table.SetHeader([]string{"TOKENIZER", "VOCAB", "COMPRESSION", "ACCURACY", "FERTILITY", "TOK/S", "AVG TOKENS"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		for _, res := range ranked {
			table.Append([]string{
				res.Name,
				formatVocab(res.VocabSize),
				fmt.Sprintf("%.2fx", res.CompressionRatio),
				fmt.Sprintf("%.1f%%", res.RoundTripAccuracyPercent),
				fmt.Sprintf("%.2f", res.Fertility),
				fmt.Sprintf("%.0f", res.TokensPerSecond),
				fmt.Sprintf("%.1f", res.AverageTokensPerText),
			})
		}
		table.Render()
	}

	if _, failed := SplitResults(results); len(failed) > 0 {
		fmt.Fprintln(r.W, "\nFailed to evaluate:")
		for _, f := range failed {
			fmt.Fprintf(r.W, "  ✗ %s: %s\n", f.Name, f.Error)
		}
	}

	if bestCompression, bestAccuracy := Best(results); bestCompression != nil {
		fmt.Fprintln(r.W, "\nBest performance:")
		fmt.Fprintf(r.W, "  - Compression: %s (%.2fx)\n", bestCompression.Name, bestCompression.CompressionRatio)
		fmt.Fprintf(r.W, "  - Accuracy: %s (%.1f%%)\n", bestAccuracy.Name, bestAccuracy.RoundTripAccuracyPercent)
	}

	fmt.Fprintln(r.W)
	r.rule(80)
}

func (r *Reporter) rule(n int) {
	fmt.Fprintln(r.W, strings.Repeat("=", n))
}

func formatVocab(n int) string {
	if n <= 0 {
		return "N/A"
	}
	return formatCount(n)
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func displayPiece(piece string) string {
	if strings.TrimSpace(piece) == piece && piece != "" {
		return piece
	}
	return strconv.Quote(piece)
}

func previewPieces(pieces []string, max int) string {
	quoted := make([]string, 0, max)
	for i, p := range pieces {
		if i >= max {
			break
		}
		quoted = append(quoted, strconv.Quote(p))
	}
	out := "[" + strings.Join(quoted, " ") + "]"
	if len(pieces) > max {
		out += "..."
	}
	return out
}

func previewIDs(ids []int, max int) string {
	parts := make([]string, 0, max)
	for i, id := range ids {
		if i >= max {
			break
		}
		parts = append(parts, strconv.Itoa(id))
	}
	out := "[" + strings.Join(parts, " ") + "]"
	if len(ids) > max {
		out += "..."
	}
	return out
}
