package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeAcknowledger records calls and returns a fixed reply.
type fakeAcknowledger struct {
	calls []string
	reply string
}

func (f *fakeAcknowledger) Acknowledge(_ context.Context, utterance string) string {
	f.calls = append(f.calls, utterance)
	if f.reply == "" {
		return "Let's continue."
	}
	return f.reply
}

func TestResolveYesNo(t *testing.T) {
	tests := []struct {
		name            string
		utterance       string
		expectedOutcome Outcome
		expectedAnswer  string
		generatorCalled bool
	}{
		{name: "clean yes", utterance: "Yes I am", expectedOutcome: OutcomeYes, expectedAnswer: "yes"},
		{name: "clean no", utterance: "no", expectedOutcome: OutcomeNo, expectedAnswer: "no"},
		{name: "yes wins over no", utterance: "no, actually yes", expectedOutcome: OutcomeYes, expectedAnswer: "yes"},
		{name: "unclear", utterance: "I have a question about my fines", expectedOutcome: OutcomeAcknowledge, generatorCalled: true},
		{name: "empty", utterance: "", expectedOutcome: OutcomeAcknowledge, generatorCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{reply: "I understand. Thank you. Let's continue."}
			r := NewResolver(ack)

			res := r.Resolve(context.Background(), tt.utterance, KindYesNo)

			assert.Equal(t, tt.expectedOutcome, res.Outcome)
			assert.Equal(t, tt.expectedAnswer, res.Answer)
			if tt.generatorCalled {
				assert.Equal(t, []string{tt.utterance}, ack.calls)
				assert.Equal(t, "I understand. Thank you. Let's continue.", res.Acknowledgement)
			} else {
				assert.Empty(t, ack.calls)
				assert.Empty(t, res.Acknowledgement)
			}
		})
	}
}

func TestResolveFreeText(t *testing.T) {
	ack := &fakeAcknowledger{}
	r := NewResolver(ack)

	res := r.Resolve(context.Background(), "  Officer Daniels  ", KindFreeText)
	assert.Equal(t, OutcomeAnswer, res.Outcome)
	assert.Equal(t, "Officer Daniels", res.Answer)
	assert.Empty(t, ack.calls)
}

func TestResolveFreeTextTooShort(t *testing.T) {
	ack := &fakeAcknowledger{reply: "No problem. Thank you. Let's continue."}
	r := NewResolver(ack)

	res := r.Resolve(context.Background(), "uh", KindFreeText)

	assert.Equal(t, OutcomeAcknowledge, res.Outcome)
	// Acknowledge-then-advance policy: the raw trimmed utterance is still
	// recorded as the answer.
	assert.Equal(t, "uh", res.Answer)
	assert.Equal(t, "No problem. Thank you. Let's continue.", res.Acknowledgement)
	assert.Equal(t, []string{"uh"}, ack.calls)
}

func TestResolveKindNonePassesThrough(t *testing.T) {
	ack := &fakeAcknowledger{}
	r := NewResolver(ack)

	res := r.Resolve(context.Background(), " anything ", KindNone)
	assert.Equal(t, OutcomeAnswer, res.Outcome)
	assert.Equal(t, "anything", res.Answer)
	assert.Empty(t, ack.calls)
}
