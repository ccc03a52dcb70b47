package backends

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tokeval/harness"
)

// Character is the character-level baseline: one token per rune, ids are
// Unicode code points. It has no learned vocabulary, so VocabSize reports 0
// (unknown/unbounded).
type Character struct{}

// Encode converts text to per-rune tokens.
func (Character) Encode(text string, rep harness.Representation) (harness.Tokens, error) {
	switch rep {
	case harness.RepPieces:
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return harness.PieceTokens(pieces), nil
	case harness.RepIDs:
		ids := make([]int, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			ids = append(ids, int(r))
		}
		return harness.IDTokens(ids), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(rep)))
	}
}

// Decode concatenates pieces, or converts ids back to runes with '?' for
// ids outside the Unicode range.
func (Character) Decode(tokens harness.Tokens) (string, error) {
	switch tokens.Rep {
	case harness.RepPieces:
		return strings.Join(tokens.Pieces, ""), nil
	case harness.RepIDs:
		var b strings.Builder
		for _, id := range tokens.IDs {
			if id < 0 || id > utf8.MaxRune {
				b.WriteByte('?')
				continue
			}
			b.WriteRune(rune(id))
		}
		return b.String(), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(tokens.Rep)))
	}
}

// VocabSize returns 0: the baseline has no fixed vocabulary.
func (Character) VocabSize() int { return 0 }
