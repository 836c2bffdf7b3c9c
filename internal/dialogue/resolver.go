// Package dialogue resolves a caller utterance against the input kind the
// current interview step expects, invoking the acknowledgement generator
// when the utterance does not fit.
package dialogue

import (
	"context"
	"strings"

	"intake-call-service/internal/classify"
)

// InputKind is the answer shape a step expects.
type InputKind string

const (
	KindYesNo    InputKind = "yes_no"
	KindFreeText InputKind = "free_text"
	KindNone     InputKind = "none"
)

// Outcome is the resolver's verdict on an utterance.
type Outcome string

const (
	OutcomeYes    Outcome = "yes"
	OutcomeNo     Outcome = "no"
	OutcomeAnswer Outcome = "answer"
	// OutcomeAcknowledge means the utterance did not match the expected
	// shape; Acknowledgement holds the reply to speak before continuing.
	OutcomeAcknowledge Outcome = "acknowledge"
)

// Resolution carries the outcome plus the accepted answer text or the
// acknowledgement to speak.
type Resolution struct {
	Outcome         Outcome
	Answer          string
	Acknowledgement string
}

// Acknowledger produces a short spoken reply for an off-script utterance.
// Implementations must always return usable text (see genai).
type Acknowledger interface {
	Acknowledge(ctx context.Context, utterance string) string
}

type Resolver struct {
	acknowledger Acknowledger
}

func NewResolver(acknowledger Acknowledger) *Resolver {
	return &Resolver{acknowledger: acknowledger}
}

// Resolve classifies the utterance against the expected kind. Clean
// classifications pass through untouched; ambiguous or too-short input
// yields OutcomeAcknowledge with generated text. The generator call is
// bounded by its own timeout, so Resolve never blocks indefinitely and
// never returns without a usable outcome.
func (r *Resolver) Resolve(ctx context.Context, utterance string, kind InputKind) Resolution {
	switch kind {
	case KindYesNo:
		switch classify.YesNo(utterance) {
		case classify.Yes:
			return Resolution{Outcome: OutcomeYes, Answer: "yes"}
		case classify.No:
			return Resolution{Outcome: OutcomeNo, Answer: "no"}
		}
		return r.acknowledge(ctx, utterance)

	case KindFreeText:
		trimmed := strings.TrimSpace(utterance)
		if classify.FreeText(utterance) == classify.Valid {
			return Resolution{Outcome: OutcomeAnswer, Answer: trimmed}
		}
		res := r.acknowledge(ctx, utterance)
		// Acknowledge-then-advance: the short utterance is still recorded
		// as the step's answer.
		res.Answer = trimmed
		return res

	default:
		return Resolution{Outcome: OutcomeAnswer, Answer: strings.TrimSpace(utterance)}
	}
}

func (r *Resolver) acknowledge(ctx context.Context, utterance string) Resolution {
	return Resolution{
		Outcome:         OutcomeAcknowledge,
		Acknowledgement: r.acknowledger.Acknowledge(ctx, utterance),
	}
}
