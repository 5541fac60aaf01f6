// Package vocab maps between token identifiers and text for the parts of the
// vocabulary the pipeline cares about: the reserved special tokens and plain
// text. Full byte-pair encoding lives inside the model backends; this codec
// only has to round-trip backend output losslessly while preserving the
// reserved ids the token-stream parser keys on.
package vocab

import (
	"strings"
	"unicode/utf8"

	"github.com/menta2k/gui-locator/pkg/types"
)

// Reserved token ids from the Holo2 (Qwen) tokenizer vocabulary.
const (
	ReasoningStartID int32 = 151667 // <think>
	ReasoningEndID   int32 = 151668 // </think>
	EndOfTextID      int32 = 151643 // <|endoftext|>
	ImStartID        int32 = 151644 // <|im_start|>
	ImEndID          int32 = 151645 // <|im_end|>
)

// Codec converts between text and token sequences.
type Codec interface {
	Encode(s string) types.TokenSequence
	// Decode renders a token sequence as text. When skipSpecial is true,
	// special/control tokens are suppressed from the output.
	Decode(ids types.TokenSequence, skipSpecial bool) string
}

// runeEscapeOffset shifts text runes whose code points fall at or above the
// reserved id range past the Unicode code space, so plain text can never
// encode to a special token id.
const runeEscapeOffset int32 = utf8.MaxRune + 1

// RuneCodec is a text codec where every ordinary rune encodes to its own code
// point and registered special token strings encode to their reserved ids via
// longest match. Runes at or above the reserved id range are escaped above
// the Unicode code space so they never alias a sentinel. Reserved ids that
// are not registered decode to nothing: they are control tokens with no
// textual form.
type RuneCodec struct {
	special map[string]int32
	byID    map[int32]string
}

// DefaultSpecials returns the special tokens of the Holo2 vocabulary that the
// pipeline needs to recognize.
func DefaultSpecials() map[string]int32 {
	return map[string]int32{
		"<think>":       ReasoningStartID,
		"</think>":      ReasoningEndID,
		"<|endoftext|>": EndOfTextID,
		"<|im_start|>":  ImStartID,
		"<|im_end|>":    ImEndID,
	}
}

// NewRuneCodec creates a codec recognizing the given special token strings.
func NewRuneCodec(specials map[string]int32) *RuneCodec {
	byID := make(map[int32]string, len(specials))
	for s, id := range specials {
		byID[id] = s
	}
	return &RuneCodec{special: specials, byID: byID}
}

// Default returns a codec recognizing the Holo2 special tokens.
func Default() *RuneCodec {
	return NewRuneCodec(DefaultSpecials())
}

// Encode converts text to a token sequence. Special token strings are matched
// greedily (longest match first) at every position. Invalid UTF-8 bytes
// encode as the replacement character rather than failing.
func (c *RuneCodec) Encode(s string) types.TokenSequence {
	ids := make(types.TokenSequence, 0, len(s))
	for len(s) > 0 {
		if tok, id, ok := c.matchSpecial(s); ok {
			ids = append(ids, id)
			s = s[len(tok):]
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		id := int32(r)
		if id >= EndOfTextID {
			id += runeEscapeOffset
		}
		ids = append(ids, id)
		s = s[size:]
	}
	return ids
}

// Decode converts a token sequence back to text. Ids registered as special
// tokens are emitted verbatim unless skipSpecial is set; escaped ids map back
// to their original runes; unregistered ids in the reserved range are always
// dropped.
func (c *RuneCodec) Decode(ids types.TokenSequence, skipSpecial bool) string {
	var b strings.Builder
	for _, id := range ids {
		if tok, ok := c.byID[id]; ok {
			if !skipSpecial {
				b.WriteString(tok)
			}
			continue
		}
		if id >= runeEscapeOffset {
			if r := rune(id - runeEscapeOffset); utf8.ValidRune(r) {
				b.WriteRune(r)
			}
			continue
		}
		if id < 0 || id >= EndOfTextID {
			// Unregistered reserved/control ids have no textual form.
			continue
		}
		b.WriteRune(rune(id))
	}
	return b.String()
}

func (c *RuneCodec) matchSpecial(s string) (string, int32, bool) {
	var best string
	var bestID int32
	for tok, id := range c.special {
		if len(tok) > len(best) && strings.HasPrefix(s, tok) {
			best = tok
			bestID = id
		}
	}
	return best, bestID, best != ""
}
