// Package interview drives the intake conversation: an ordered table of
// steps, each naming the webhook route its answer arrives on, the input
// kind it expects, how its answer folds into the call state and which step
// follows. The flow itself lives in this table; the controller only
// executes it.
package interview

import (
	"intake-call-service/internal/callstate"
	"intake-call-service/internal/dialogue"
)

// Spoken script fragments shared across steps.
const (
	greetingText = "Hello. This is the automated intake line for people under community supervision. " +
		"Are you currently under court supervision? Please say yes or no."
	rejectionText = "Thank you. This line is only for people under active court supervision. Goodbye."
	noResponseText = "We did not receive your response. Goodbye."
)

// Step is one point in the interview. The webhook at Route receives the
// caller's answer to Question; Fold records it; Next picks the following
// step, or nil to end the call without a summary.
type Step struct {
	Name     string
	Route    string
	Question string
	Kind     dialogue.InputKind
	Terminal bool

	Fold func(state *callstate.CallState, res dialogue.Resolution)
	Next func(res dialogue.Resolution) *Step
}

// buildSteps wires the interview table. Returned in webhook order; the
// first element is the step the entry greeting gathers toward.
func buildSteps() []*Step {
	supervision := &Step{
		Name:     "supervision-status",
		Route:    "/supervision-status",
		Question: greetingText,
		Kind:     dialogue.KindYesNo,
	}
	officer := &Step{
		Name:     "officer-name",
		Route:    "/officer-name",
		Question: "Thank you. What is the name of your supervising officer?",
		Kind:     dialogue.KindFreeText,
	}
	recentRelease := &Step{
		Name:     "recent-release",
		Route:    "/recent-release",
		Question: "Have you been released from custody within the last ninety days? Please say yes or no.",
		Kind:     dialogue.KindYesNo,
	}
	urgentNeeds := &Step{
		Name:     "urgent-needs",
		Route:    "/urgent-needs",
		Question: "Do you have any urgent needs right now, such as housing, food, or medication? Please say yes or no.",
		Kind:     dialogue.KindYesNo,
	}
	urgentDetails := &Step{
		Name:     "urgent-details",
		Route:    "/urgent-details",
		Question: "Please briefly describe your urgent needs.",
		Kind:     dialogue.KindFreeText,
	}
	assistance := &Step{
		Name:     "assistance-request",
		Route:    "/assistance-request",
		Question: "Finally, what can a caseworker help you with? Please describe your request.",
		Kind:     dialogue.KindFreeText,
		Terminal: true,
	}

	// Supervision status is not a recorded field; it only gates the call.
	// Only an explicit no terminates: anything else, including an
	// acknowledged off-script remark, advances (acknowledge-then-advance).
	supervision.Fold = func(state *callstate.CallState, res dialogue.Resolution) {}
	supervision.Next = func(res dialogue.Resolution) *Step {
		if res.Outcome == dialogue.OutcomeNo {
			return nil
		}
		return officer
	}

	// Too-short officer names are recorded as heard; the summary carries
	// whatever the caller managed to say.
	officer.Fold = func(state *callstate.CallState, res dialogue.Resolution) {
		state.Officer = res.Answer
	}
	officer.Next = func(res dialogue.Resolution) *Step { return recentRelease }

	// An unclear answer leaves the flag unset rather than guessing.
	recentRelease.Fold = func(state *callstate.CallState, res dialogue.Resolution) {
		state.RecentRelease = res.Answer
	}
	recentRelease.Next = func(res dialogue.Resolution) *Step { return urgentNeeds }

	// The details step is entered only on an explicit yes; every other
	// outcome records no urgent needs and skips ahead.
	urgentNeeds.Fold = func(state *callstate.CallState, res dialogue.Resolution) {
		if res.Outcome == dialogue.OutcomeYes {
			state.Urgent = callstate.FlagYes
			return
		}
		state.Urgent = callstate.FlagNo
		state.UrgentDetails = ""
	}
	urgentNeeds.Next = func(res dialogue.Resolution) *Step {
		if res.Outcome == dialogue.OutcomeYes {
			return urgentDetails
		}
		return assistance
	}

	urgentDetails.Fold = func(state *callstate.CallState, res dialogue.Resolution) {
		state.UrgentDetails = res.Answer
	}
	urgentDetails.Next = func(res dialogue.Resolution) *Step { return assistance }

	// Terminal: the controller assembles and dispatches the summary.
	assistance.Fold = func(state *callstate.CallState, res dialogue.Resolution) {}
	assistance.Next = func(res dialogue.Resolution) *Step { return nil }

	return []*Step{supervision, officer, recentRelease, urgentNeeds, urgentDetails, assistance}
}
