package harness

import "fmt"

// Representation selects the unit Encode returns.
type Representation int

const (
	// RepPieces yields the textual surface form of each token. For backends
	// whose natural unit is the integer id this view is an approximation
	// (see Adapter.ApproximatePieces).
	RepPieces Representation = iota

	// RepIDs yields integer vocabulary ids, the backend's native sequence.
	// This is the only representation faithful enough for round-trip
	// correctness checks.
	RepIDs
)

func (r Representation) String() string {
	switch r {
	case RepPieces:
		return "pieces"
	case RepIDs:
		return "ids"
	default:
		return fmt.Sprintf("Representation(%d)", int(r))
	}
}

// Kind tags the closed set of backend variants. Adding a backend means
// adding one variant implementing Backend; the checker and metrics engine
// never branch on Kind.
type Kind int

const (
	KindUnigram Kind = iota
	KindByteLevel
	KindWordPiece
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindUnigram:
		return "unigram-subword"
	case KindByteLevel:
		return "byte-level"
	case KindWordPiece:
		return "wordpiece"
	case KindCharacter:
		return "character-baseline"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tokens holds one encoded text in a single representation. Only the slice
// matching Rep is populated.
type Tokens struct {
	Rep    Representation
	IDs    []int
	Pieces []string
}

// IDTokens wraps a native id sequence.
func IDTokens(ids []int) Tokens {
	return Tokens{Rep: RepIDs, IDs: ids}
}

// PieceTokens wraps a textual piece sequence.
func PieceTokens(pieces []string) Tokens {
	return Tokens{Rep: RepPieces, Pieces: pieces}
}

// Len returns the number of tokens in the populated representation.
func (t Tokens) Len() int {
	if t.Rep == RepIDs {
		return len(t.IDs)
	}
	return len(t.Pieces)
}

// Backend is the three-operation capability every tokenizer variant
// provides. Implementations may be piece-native, id-native, or both; Encode
// and Decode must accept either representation, approximating where the
// backend has no native answer.
//
// An unknown Representation is a caller programming error: implementations
// panic rather than return an error, since it indicates host
// misconfiguration, not bad input.
type Backend interface {
	// Encode converts text to tokens in the requested representation.
	Encode(text string, rep Representation) (Tokens, error)

	// Decode converts tokens in either representation back to text.
	Decode(tokens Tokens) (string, error)

	// VocabSize returns the fixed vocabulary size, or 0 when the backend
	// has none (unknown/unbounded).
	VocabSize() int
}

// Adapter is a named handle over one backend instance. It owns the backend
// for the lifetime of the evaluation run and carries the per-model facts the
// harness needs: a vocab-size override for backends whose own accounting is
// missing or unreliable, whether the model normalizes input before encoding
// (enables the checker's NFKC relaxation), and whether its textual pieces
// are a per-id decode approximation rather than a faithful segmentation.
type Adapter struct {
	name            string
	kind            Kind
	backend         Backend
	vocabOverride   int
	normalizesInput bool
	approxPieces    bool
}

// AdapterOption is a functional option for NewAdapter.
type AdapterOption func(*Adapter)

// WithVocabSize overrides the backend's reported vocabulary size.
func WithVocabSize(n int) AdapterOption {
	return func(a *Adapter) {
		a.vocabOverride = n
	}
}

// WithNormalizedInput marks the model as applying irreversible but
// well-defined Unicode normalization during encoding. Only adapters carrying
// this flag get the checker's NFKC relaxation; applying it universally would
// mask genuine round-trip bugs.
func WithNormalizedInput() AdapterOption {
	return func(a *Adapter) {
		a.normalizesInput = true
	}
}

// WithApproximatePieces marks the textual piece view as a lossy per-id
// decode approximation, never passed off as a faithful segmentation.
func WithApproximatePieces() AdapterOption {
	return func(a *Adapter) {
		a.approxPieces = true
	}
}

// NewAdapter wraps a backend under a display name and kind tag.
func NewAdapter(name string, kind Kind, b Backend, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		name:    name,
		kind:    kind,
		backend: b,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the adapter's display name.
func (a *Adapter) Name() string { return a.name }

// Kind returns the backend variant tag.
func (a *Adapter) Kind() Kind { return a.kind }

// NormalizesInput reports whether the model normalizes input before encoding.
func (a *Adapter) NormalizesInput() bool { return a.normalizesInput }

// ApproximatePieces reports whether the textual piece view is approximated.
func (a *Adapter) ApproximatePieces() bool { return a.approxPieces }

// Encode converts text to tokens in the requested representation.
func (a *Adapter) Encode(text string, rep Representation) (Tokens, error) {
	if rep != RepPieces && rep != RepIDs {
		panic(fmt.Sprintf("harness: unknown representation %d", int(rep)))
	}
	return a.backend.Encode(text, rep)
}

// Decode converts tokens back to text. Empty input yields empty text
// without touching the backend.
func (a *Adapter) Decode(tokens Tokens) (string, error) {
	if tokens.Len() == 0 {
		return "", nil
	}
	return a.backend.Decode(tokens)
}

// VocabSize returns the configured override when one was supplied at
// construction, else the backend's own answer. 0 means unknown/unbounded.
func (a *Adapter) VocabSize() int {
	if a.vocabOverride > 0 {
		return a.vocabOverride
	}
	return a.backend.VocabSize()
}

// Close releases the backend when it holds native resources; backends
// without a Close method need no release.
func (a *Adapter) Close() {
	if c, ok := a.backend.(interface{ Close() }); ok {
		c.Close()
	}
}
