package backends

import (
	"reflect"
	"testing"

	"tokeval/harness"
)

func TestCharacterEncode(t *testing.T) {
	tokens, err := Character{}.Encode("héllo", harness.RepPieces)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []string{"h", "é", "l", "l", "o"}
	if !reflect.DeepEqual(tokens.Pieces, want) {
		t.Errorf("Expected pieces %v, got %v", want, tokens.Pieces)
	}

	tokens, err = Character{}.Encode("ab", harness.RepIDs)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(tokens.IDs, []int{'a', 'b'}) {
		t.Errorf("Expected code points [97 98], got %v", tokens.IDs)
	}
}

func TestCharacterRoundTrip(t *testing.T) {
	texts := []string{"hello world", "नमस्कार", "日本語テスト", ""}
	for _, text := range texts {
		tokens, err := Character{}.Encode(text, harness.RepIDs)
		if err != nil {
			t.Fatalf("Encode %q: %v", text, err)
		}
		decoded, err := Character{}.Decode(tokens)
		if err != nil {
			t.Fatalf("Decode %q: %v", text, err)
		}
		if decoded != text {
			t.Errorf("Round trip of %q produced %q", text, decoded)
		}
	}
}

func TestCharacterDecodeInvalidID(t *testing.T) {
	decoded, err := Character{}.Decode(harness.IDTokens([]int{'a', -1, 0x110000, 'b'}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "a??b" {
		t.Errorf("Expected 'a??b', got %q", decoded)
	}
}

func TestCharacterVocabSize(t *testing.T) {
	if got := (Character{}).VocabSize(); got != 0 {
		t.Errorf("Expected 0 for the unbounded baseline, got %d", got)
	}
}
