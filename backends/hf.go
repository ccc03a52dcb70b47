package backends

import (
	"fmt"
	"os"
	"strings"

	"github.com/daulet/tokenizers"

	"tokeval/harness"
)

// HF wraps a HuggingFace tokenizer.json artifact through the
// daulet/tokenizers bindings. It is piece-native and id-native, so neither
// representation is approximated. The primary model under test is loaded
// through this backend; the bindings need the native tokenizers library, so
// construction failure also covers the "library unavailable" case for
// optional comparison artifacts.
type HF struct {
	tk *tokenizers.Tokenizer
}

// NewHF loads tokenizer.json from path. The file is checked first so a
// missing model artifact reports a plain not-found error before the
// bindings are invoked.
func NewHF(path string) (*HF, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("tokenizer model not found: %w", err)
	}
	tk, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	return &HF{tk: tk}, nil
}

// Encode converts text to tokens in the requested representation. Special
// tokens are never added: the harness measures the model's segmentation of
// the text itself.
func (h *HF) Encode(text string, rep harness.Representation) (harness.Tokens, error) {
	ids, pieces := h.tk.Encode(text, false)
	switch rep {
	case harness.RepIDs:
		out := make([]int, len(ids))
		for i, id := range ids {
			out[i] = int(id)
		}
		return harness.IDTokens(out), nil
	case harness.RepPieces:
		return harness.PieceTokens(pieces), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(rep)))
	}
}

// Decode converts tokens back to text. Textual pieces carry segmentation
// markers the plain string form cannot restore, so they are re-derived into
// ids piece by piece; when nothing re-encodes the pieces are concatenated
// as-is.
func (h *HF) Decode(tokens harness.Tokens) (string, error) {
	switch tokens.Rep {
	case harness.RepIDs:
		ids := make([]uint32, len(tokens.IDs))
		for i, id := range tokens.IDs {
			ids[i] = uint32(id)
		}
		return h.tk.Decode(ids, true), nil
	case harness.RepPieces:
		var ids []uint32
		for _, piece := range tokens.Pieces {
			pieceIDs, _ := h.tk.Encode(piece, false)
			ids = append(ids, pieceIDs...)
		}
		if len(ids) == 0 {
			return strings.Join(tokens.Pieces, ""), nil
		}
		return h.tk.Decode(ids, true), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(tokens.Rep)))
	}
}

// VocabSize returns the artifact's vocabulary size.
func (h *HF) VocabSize() int { return int(h.tk.VocabSize()) }

// Close releases the native tokenizer.
func (h *HF) Close() {
	if h.tk != nil {
		h.tk.Close()
		h.tk = nil
	}
}
