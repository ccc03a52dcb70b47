package backends

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"tokeval/harness"
)

const (
	wordPieceUnknown  = "[UNK]"
	wordPiecePrefix   = "##"
	maxWordPieceChars = 100
)

// WordPiece applies a pre-trained BERT-style vocabulary loaded from a
// vocab.txt file (one piece per line, line number = id). Words are split by
// greedy longest match; continuation pieces carry the "##" prefix, and the
// detokenization join rule strips it back out — the variant's distinct
// decode behavior. Words with no valid segmentation map to [UNK], which
// makes round trips through unknown words lossy by construction.
type WordPiece struct {
	vocab     map[string]int
	invVocab  map[int]string
	lowercase bool
}

// NewWordPiece loads vocab.txt from path. lowercase selects uncased-model
// behavior.
func NewWordPiece(path string, lowercase bool) (*WordPiece, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read wordpiece vocab: %w", err)
	}
	defer f.Close()

	w := &WordPiece{
		vocab:     make(map[string]int),
		invVocab:  make(map[int]string),
		lowercase: lowercase,
	}
	scanner := bufio.NewScanner(f)
	id := 0
	for scanner.Scan() {
		piece := strings.TrimRight(scanner.Text(), "\r\n")
		if piece == "" {
			continue
		}
		w.vocab[piece] = id
		w.invVocab[id] = piece
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wordpiece vocab: %w", err)
	}
	if len(w.vocab) == 0 {
		return nil, fmt.Errorf("wordpiece vocab %s is empty", path)
	}
	return w, nil
}

// Encode converts text to tokens. Pieces are the native unit; ids are their
// vocabulary positions.
func (w *WordPiece) Encode(text string, rep harness.Representation) (harness.Tokens, error) {
	pieces := w.encodePieces(text)
	switch rep {
	case harness.RepPieces:
		return harness.PieceTokens(pieces), nil
	case harness.RepIDs:
		ids := make([]int, 0, len(pieces))
		for _, piece := range pieces {
			if id, ok := w.vocab[piece]; ok {
				ids = append(ids, id)
			}
		}
		return harness.IDTokens(ids), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(rep)))
	}
}

// Decode joins pieces with spaces and strips the continuation prefix. Ids
// are mapped back to pieces first; unknown ids are skipped.
func (w *WordPiece) Decode(tokens harness.Tokens) (string, error) {
	var pieces []string
	switch tokens.Rep {
	case harness.RepPieces:
		pieces = tokens.Pieces
	case harness.RepIDs:
		pieces = make([]string, 0, len(tokens.IDs))
		for _, id := range tokens.IDs {
			if piece, ok := w.invVocab[id]; ok {
				pieces = append(pieces, piece)
			}
		}
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(tokens.Rep)))
	}
	joined := strings.Join(pieces, " ")
	return strings.ReplaceAll(joined, " "+wordPiecePrefix, ""), nil
}

// VocabSize returns the loaded vocabulary size.
func (w *WordPiece) VocabSize() int { return len(w.vocab) }

// encodePieces pre-tokenizes on whitespace and punctuation, then applies
// greedy longest-match per word.
func (w *WordPiece) encodePieces(text string) []string {
	if w.lowercase {
		text = strings.ToLower(text)
	}
	var pieces []string
	for _, word := range splitWords(text) {
		pieces = append(pieces, w.wordToPieces(word)...)
	}
	return pieces
}

func (w *WordPiece) wordToPieces(word string) []string {
	runes := []rune(word)
	if len(runes) > maxWordPieceChars {
		return []string{wordPieceUnknown}
	}
	var pieces []string
	start := 0
	for start < len(runes) {
		match := ""
		end := len(runes)
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = wordPiecePrefix + sub
			}
			if _, ok := w.vocab[sub]; ok {
				match = sub
				break
			}
			end--
		}
		if match == "" {
			return []string{wordPieceUnknown}
		}
		pieces = append(pieces, match)
		start = end
	}
	return pieces
}

// splitWords breaks text on whitespace and treats each punctuation rune as
// its own word, the BERT pre-tokenization rule.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r):
			flush()
			words = append(words, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
