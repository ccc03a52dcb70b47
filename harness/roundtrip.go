package harness

import "golang.org/x/text/unicode/norm"

// RoundTrip is the outcome of the encode→decode check over a corpus.
type RoundTrip struct {
	Correct int
	Total   int
}

// AccuracyPercent returns 100 × correct / total, or 0 for an empty corpus.
func (r RoundTrip) AccuracyPercent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// CheckRoundTrip measures how many lines survive encode→decode unchanged.
//
// Encoding uses the id representation: textual pieces are approximations for
// id-native backends and would inflate their failure rate. A decoded line
// counts as correct when it equals the original exactly, or — only for
// adapters whose model normalizes input before encoding — when it equals the
// NFKC form of the original, since such models never promised to reproduce
// the input byte-for-byte. Any per-line encode or decode error counts as a
// miss rather than failing the run.
func CheckRoundTrip(a *Adapter, lines []string) RoundTrip {
	rt := RoundTrip{Total: len(lines)}
	for _, line := range lines {
		tokens, err := a.Encode(line, RepIDs)
		if err != nil {
			continue
		}
		decoded, err := a.Decode(tokens)
		if err != nil {
			continue
		}
		if decoded == line {
			rt.Correct++
			continue
		}
		if a.NormalizesInput() && decoded == norm.NFKC.String(line) {
			rt.Correct++
		}
	}
	return rt
}
