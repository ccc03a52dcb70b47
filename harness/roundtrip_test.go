package harness

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

// nfkcBackend models a tokenizer that normalizes input before encoding:
// ids are the code points of the NFKC form, so decode returns NFKC(text).
type nfkcBackend struct{}

func (nfkcBackend) Encode(text string, rep Representation) (Tokens, error) {
	normalized := norm.NFKC.String(text)
	if rep == RepPieces {
		var pieces []string
		for _, r := range normalized {
			pieces = append(pieces, string(r))
		}
		return PieceTokens(pieces), nil
	}
	var ids []int
	for _, r := range normalized {
		ids = append(ids, int(r))
	}
	return IDTokens(ids), nil
}

func (nfkcBackend) Decode(tokens Tokens) (string, error) {
	var out []rune
	for _, id := range tokens.IDs {
		out = append(out, rune(id))
	}
	return string(out), nil
}

func (nfkcBackend) VocabSize() int { return 0 }

func TestCheckRoundTripPerfect(t *testing.T) {
	a := newTinyAdapter()

	rt := CheckRoundTrip(a, []string{"ab", "xy"})
	if rt.Correct != 2 || rt.Total != 2 {
		t.Errorf("Expected 2/2, got %d/%d", rt.Correct, rt.Total)
	}
	if got := rt.AccuracyPercent(); got != 100 {
		t.Errorf("Expected 100%%, got %.2f", got)
	}
}

func TestCheckRoundTripEncodeErrorIsMiss(t *testing.T) {
	b := &failingBackend{
		Backend: &tinyBackend{vocab: []string{"x", "y", "a", "b"}},
		trigger: "y",
	}
	a := NewAdapter("flaky", KindUnigram, b)

	rt := CheckRoundTrip(a, []string{"ab", "xy", "ba"})
	if rt.Correct != 2 || rt.Total != 3 {
		t.Errorf("Expected 2/3, got %d/%d", rt.Correct, rt.Total)
	}
}

func TestCheckRoundTripNFKCRelaxation(t *testing.T) {
	// "ﬁsh" decodes as "fish" under NFKC; only a normalizing adapter may
	// count that as correct.
	lines := []string{"ﬁsh"}

	strict := NewAdapter("strict", KindUnigram, nfkcBackend{})
	if rt := CheckRoundTrip(strict, lines); rt.Correct != 0 {
		t.Errorf("Expected 0 correct without the normalization flag, got %d", rt.Correct)
	}

	relaxed := NewAdapter("relaxed", KindUnigram, nfkcBackend{}, WithNormalizedInput())
	if rt := CheckRoundTrip(relaxed, lines); rt.Correct != 1 {
		t.Errorf("Expected 1 correct with the normalization flag, got %d", rt.Correct)
	}
}

func TestRoundTripAccuracyEmptyCorpus(t *testing.T) {
	rt := CheckRoundTrip(newTinyAdapter(), nil)
	if rt.Total != 0 {
		t.Errorf("Expected total 0, got %d", rt.Total)
	}
	if got := rt.AccuracyPercent(); got != 0 {
		t.Errorf("Expected 0%% for empty corpus, got %.2f", got)
	}
}
