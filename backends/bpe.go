package backends

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"tokeval/harness"
)

// gpt2SplitPattern is the GPT-2 pre-tokenization pattern, simplified for
// RE2: contractions, words, numbers, punctuation runs, whitespace.
var gpt2SplitPattern = regexp.MustCompile(`'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+`)

// ByteLevelBPE applies a pre-trained GPT-2 style byte-level BPE model loaded
// from vocab.json and merges.txt. Its natural unit is the integer id: the
// vocabulary stores byte-remapped strings that only become text after the
// byte decoder runs, so the textual piece view is produced by decoding each
// id individually. That view is lossy for pieces whose surface depends on
// neighbouring tokens; adapters over this backend should carry
// harness.WithApproximatePieces.
type ByteLevelBPE struct {
	encoder     map[string]int
	decoder     map[int]string
	mergeRanks  map[[2]string]int
	byteEncoder [256]rune
	byteDecoder map[rune]byte
}

// NewByteLevelBPE loads vocab.json and merges.txt from dir.
func NewByteLevelBPE(dir string) (*ByteLevelBPE, error) {
	b := &ByteLevelBPE{
		encoder:    make(map[string]int),
		mergeRanks: make(map[[2]string]int),
	}
	b.byteEncoder = byteToUnicode()
	b.byteDecoder = make(map[rune]byte, 256)
	for i, r := range b.byteEncoder {
		b.byteDecoder[r] = byte(i)
	}

	data, err := os.ReadFile(filepath.Join(dir, "vocab.json"))
	if err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	if err := json.Unmarshal(data, &b.encoder); err != nil {
		return nil, fmt.Errorf("parse vocab: %w", err)
	}
	b.decoder = make(map[int]string, len(b.encoder))
	for token, id := range b.encoder {
		b.decoder[id] = token
	}

	if err := b.loadMerges(filepath.Join(dir, "merges.txt")); err != nil {
		return nil, fmt.Errorf("load merges: %w", err)
	}
	return b, nil
}

// byteToUnicode builds GPT-2's byte-to-printable-rune remapping: printable
// Latin-1 ranges map to themselves, everything else to U+0100 and up.
func byteToUnicode() [256]rune {
	var table [256]rune
	printable := func(b int) bool {
		return (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
	}
	n := 0
	for b := 0; b < 256; b++ {
		if printable(b) {
			table[b] = rune(b)
		} else {
			table[b] = rune(256 + n)
			n++
		}
	}
	return table
}

func (b *ByteLevelBPE) loadMerges(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	rank := 0
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			if strings.HasPrefix(line, "#") {
				continue
			}
		}
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		b.mergeRanks[[2]string{parts[0], parts[1]}] = rank
		rank++
	}
	return scanner.Err()
}

// Encode converts text to tokens. The id representation is native; the
// piece representation decodes each id individually.
func (b *ByteLevelBPE) Encode(text string, rep harness.Representation) (harness.Tokens, error) {
	ids := b.encodeIDs(text)
	switch rep {
	case harness.RepIDs:
		return harness.IDTokens(ids), nil
	case harness.RepPieces:
		pieces := make([]string, len(ids))
		for i, id := range ids {
			pieces[i] = b.decodeIDs([]int{id})
		}
		return harness.PieceTokens(pieces), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(rep)))
	}
}

// Decode converts tokens back to text. Textual pieces are re-derived into
// ids per piece; when no piece re-encodes the pieces are concatenated as-is,
// a documented lossy fallback.
func (b *ByteLevelBPE) Decode(tokens harness.Tokens) (string, error) {
	switch tokens.Rep {
	case harness.RepIDs:
		return b.decodeIDs(tokens.IDs), nil
	case harness.RepPieces:
		var ids []int
		for _, piece := range tokens.Pieces {
			ids = append(ids, b.encodeIDs(piece)...)
		}
		if len(ids) == 0 {
			return strings.Join(tokens.Pieces, ""), nil
		}
		return b.decodeIDs(ids), nil
	default:
		panic(fmt.Sprintf("backends: unknown representation %d", int(tokens.Rep)))
	}
}

// VocabSize returns the loaded vocabulary size.
func (b *ByteLevelBPE) VocabSize() int { return len(b.encoder) }

func (b *ByteLevelBPE) encodeIDs(text string) []int {
	var ids []int
	for _, chunk := range gpt2SplitPattern.FindAllString(text, -1) {
		var mapped strings.Builder
		for _, c := range []byte(chunk) {
			mapped.WriteRune(b.byteEncoder[c])
		}
		for _, part := range b.merge(mapped.String()) {
			if id, ok := b.encoder[part]; ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (b *ByteLevelBPE) decodeIDs(ids []int) string {
	var mapped strings.Builder
	for _, id := range ids {
		mapped.WriteString(b.decoder[id])
	}
	raw := make([]byte, 0, mapped.Len())
	for _, r := range mapped.String() {
		if c, ok := b.byteDecoder[r]; ok {
			raw = append(raw, c)
		}
	}
	return string(raw)
}

// merge applies the learned merge rules to one byte-remapped chunk,
// repeatedly merging the adjacent pair with the lowest rank.
func (b *ByteLevelBPE) merge(chunk string) []string {
	word := make([]string, 0, len(chunk))
	for _, r := range chunk {
		word = append(word, string(r))
	}

	for len(word) > 1 {
		bestRank := -1
		bestAt := -1
		for i := 0; i < len(word)-1; i++ {
			rank, ok := b.mergeRanks[[2]string{word[i], word[i+1]}]
			if !ok {
				continue
			}
			if bestRank < 0 || rank < bestRank {
				bestRank = rank
				bestAt = i
			}
		}
		if bestAt < 0 {
			break
		}

		pair := [2]string{word[bestAt], word[bestAt+1]}
		merged := make([]string, 0, len(word)-1)
		for i := 0; i < len(word); {
			if i < len(word)-1 && word[i] == pair[0] && word[i+1] == pair[1] {
				merged = append(merged, pair[0]+pair[1])
				i += 2
			} else {
				merged = append(merged, word[i])
				i++
			}
		}
		word = merged
	}
	return word
}
