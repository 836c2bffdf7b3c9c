// Package classify turns raw caller utterances into categorical answers.
package classify

import "strings"

// YesNoResult is the outcome of classifying an utterance against a yes/no question.
type YesNoResult string

const (
	Yes     YesNoResult = "yes"
	No      YesNoResult = "no"
	Unclear YesNoResult = "unclear"
)

// FreeTextResult is the outcome of classifying a free-form answer.
type FreeTextResult string

const (
	Valid    FreeTextResult = "valid"
	TooShort FreeTextResult = "too_short"
)

// MinFreeTextLen is the minimum trimmed length for a free-text answer
// to count as a real response rather than a filler noise.
const MinFreeTextLen = 3

// YesNo classifies an utterance as Yes, No or Unclear.
//
// Precedence is deliberate and load-bearing: "yes" anywhere in the
// utterance wins, even when "no" is also present, so a caller saying
// "no, actually yes" classifies as Yes. Only when "yes" is absent does
// "no" classify as No.
func YesNo(utterance string) YesNoResult {
	lowered := strings.ToLower(utterance)
	if strings.Contains(lowered, "yes") {
		return Yes
	}
	if strings.Contains(lowered, "no") {
		return No
	}
	return Unclear
}

// FreeText classifies a free-form answer by trimmed length only.
// No semantic validation of the content is performed.
func FreeText(utterance string) FreeTextResult {
	if len(strings.TrimSpace(utterance)) >= MinFreeTextLen {
		return Valid
	}
	return TooShort
}
