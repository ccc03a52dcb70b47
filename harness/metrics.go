package harness

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// TokenCount pairs a surface piece with its occurrence count.
type TokenCount struct {
	Piece string
	Count int
}

// TokenStats are descriptive statistics over every piece produced for the
// corpus. They feed the narrative report only, never the ranking.
type TokenStats struct {
	AvgLen float64 // average piece length in characters
	MinLen int
	MaxLen int
	Top    []TokenCount // most frequent pieces, ties in first-seen order
}

// LineTokens is the canonical piece list for one corpus line. Every
// descriptive statistic and the sample display are computed from this single
// collection pass rather than re-encoding per consumer.
type LineTokens struct {
	Line   string
	Pieces []string
	Err    error // non-nil when the line failed to encode
}

// Evaluation bundles the persisted Result with report-only detail.
type Evaluation struct {
	Result    Result
	RoundTrip RoundTrip
	Stats     *TokenStats // nil when the evaluation failed or produced no tokens
	Lines     []LineTokens
}

// Evaluate runs the full metric suite for one adapter. A panic anywhere in
// the pipeline downgrades the outcome to a failed Result carrying the error
// text, so one misbehaving backend never aborts the comparison run.
func Evaluate(a *Adapter, corpus *Corpus, topK int) (ev Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			ev = Evaluation{Result: Result{Name: a.Name(), Error: fmt.Sprint(r)}}
		}
	}()

	perLine, encodeTime := encodeCorpus(a, corpus.Lines)

	var totalChars, totalTokens, totalWords, encoded int
	for _, lt := range perLine {
		if lt.Err != nil {
			continue
		}
		encoded++
		totalChars += utf8.RuneCountInString(lt.Line)
		totalTokens += len(lt.Pieces)
		totalWords += len(strings.Fields(lt.Line))
	}

	res := Result{
		Name:        a.Name(),
		VocabSize:   a.VocabSize(),
		TotalTokens: totalTokens,
		Success:     true,
	}
	if totalTokens > 0 {
		res.CompressionRatio = float64(totalChars) / float64(totalTokens)
	}
	if totalWords > 0 {
		res.Fertility = float64(totalTokens) / float64(totalWords)
	}
	if secs := encodeTime.Seconds(); secs > 0 {
		res.TokensPerSecond = float64(totalTokens) / secs
	}
	if encoded > 0 {
		res.AverageTokensPerText = float64(totalTokens) / float64(encoded)
	}

	rt := CheckRoundTrip(a, corpus.Lines)
	res.RoundTripAccuracyPercent = rt.AccuracyPercent()

	return Evaluation{
		Result:    res,
		RoundTrip: rt,
		Stats:     collectStats(perLine, topK),
		Lines:     perLine,
	}
}

// encodeCorpus runs the piece-representation encode loop once, timing only
// the backend calls. A line that fails to encode carries its error and drops
// out of every numerator and denominator alike.
func encodeCorpus(a *Adapter, lines []string) ([]LineTokens, time.Duration) {
	out := make([]LineTokens, len(lines))
	var elapsed time.Duration
	for i, line := range lines {
		out[i].Line = line
		start := time.Now()
		tokens, err := a.Encode(line, RepPieces)
		elapsed += time.Since(start)
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Pieces = tokens.Pieces
	}
	return out, elapsed
}

func collectStats(perLine []LineTokens, topK int) *TokenStats {
	counts := make(map[string]int)
	var order []string // pieces in first-seen order

	stats := &TokenStats{MinLen: -1}
	var totalLen, n int
	for _, lt := range perLine {
		if lt.Err != nil {
			continue
		}
		for _, piece := range lt.Pieces {
			l := utf8.RuneCountInString(piece)
			totalLen += l
			n++
			if stats.MinLen < 0 || l < stats.MinLen {
				stats.MinLen = l
			}
			if l > stats.MaxLen {
				stats.MaxLen = l
			}
			if _, seen := counts[piece]; !seen {
				order = append(order, piece)
			}
			counts[piece]++
		}
	}
	if n == 0 {
		return nil
	}
	stats.AvgLen = float64(totalLen) / float64(n)

	// Stable sort over the first-seen order gives count-descending ranking
	// with ties broken by first appearance.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if topK < 0 {
		topK = 0
	}
	if topK > len(order) {
		topK = len(order)
	}
	for _, piece := range order[:topK] {
		stats.Top = append(stats.Top, TokenCount{Piece: piece, Count: counts[piece]})
	}
	return stats
}
