// Package tokenstream splits a generated token sequence into a reasoning
// segment and a final-answer segment using the model's sentinel token ids.
package tokenstream

import (
	"strings"

	"github.com/menta2k/gui-locator/pkg/types"
)

// Decoder renders token ids as text, optionally suppressing special tokens.
type Decoder interface {
	Decode(ids types.TokenSequence, skipSpecial bool) string
}

type scanState int

const (
	beforeReasoning scanState = iota
	inReasoning
	afterReasoning
)

// Parse partitions tokens at the first startID and the first endID after it.
// Pure function of its inputs, no failure modes:
//   - startID absent: reasoning is empty and the answer decodes the entire
//     sequence (the generated stream may include prompt echo; it is decoded
//     as-is rather than sliced).
//   - startID present, endID absent: reasoning runs to end of sequence and
//     the answer is empty.
//
// Both segments exclude the sentinels themselves, suppress special tokens,
// and are trimmed of surrounding newlines.
func Parse(tokens types.TokenSequence, startID, endID int32, dec Decoder) types.ParsedContent {
	state := beforeReasoning
	var reasoning, answer types.TokenSequence

	for _, id := range tokens {
		switch state {
		case beforeReasoning:
			if id == startID {
				state = inReasoning
			}
		case inReasoning:
			if id == endID {
				state = afterReasoning
			} else {
				reasoning = append(reasoning, id)
			}
		case afterReasoning:
			answer = append(answer, id)
		}
	}

	if state == beforeReasoning {
		// No reasoning segment at all: the whole sequence is the answer.
		return types.ParsedContent{
			Answer: strings.Trim(dec.Decode(tokens, true), "\n"),
		}
	}

	return types.ParsedContent{
		Answer:    strings.Trim(dec.Decode(answer, true), "\n"),
		Reasoning: strings.Trim(dec.Decode(reasoning, true), "\n"),
	}
}
