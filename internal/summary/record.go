// Package summary assembles the final intake record from a completed call
// and dispatches it to the caseworker by email.
package summary

import (
	"fmt"
	"strings"
	"time"

	"intake-call-service/internal/callstate"
)

// Record is the terminal aggregation of everything the call collected.
// Immutable once built; dispatched exactly once per completed call.
type Record struct {
	CallerNumber      string
	Officer           string
	RecentRelease     string
	UrgentNeeds       string
	UrgentDetails     string
	AssistanceRequest string
	CompletedAt       time.Time
}

// BuildRecord assembles the Record from the full call state plus the final
// assistance request text.
func BuildRecord(state callstate.CallState, assistanceRequest string, now time.Time) Record {
	return Record{
		CallerNumber:      state.CallerNumber,
		Officer:           state.Officer,
		RecentRelease:     state.RecentRelease,
		UrgentNeeds:       state.Urgent,
		UrgentDetails:     state.UrgentDetails,
		AssistanceRequest: assistanceRequest,
		CompletedAt:       now.UTC(),
	}
}

// Subject returns the email subject line for the record.
func (r Record) Subject() string {
	return fmt.Sprintf("Intake call summary: %s", r.CallerNumber)
}

// Body renders the plain-text email body.
func (r Record) Body() string {
	var b strings.Builder

	b.WriteString("Automated supervision intake call summary\r\n")
	b.WriteString("=========================================\r\n\r\n")
	fmt.Fprintf(&b, "Caller number:      %s\r\n", r.CallerNumber)
	fmt.Fprintf(&b, "Supervising officer: %s\r\n", orUnknown(r.Officer))
	fmt.Fprintf(&b, "Recently released:  %s\r\n", orUnknown(r.RecentRelease))
	fmt.Fprintf(&b, "Urgent needs:       %s\r\n", orUnknown(r.UrgentNeeds))
	if r.UrgentDetails != "" {
		fmt.Fprintf(&b, "Urgent need details: %s\r\n", r.UrgentDetails)
	}
	fmt.Fprintf(&b, "Assistance request: %s\r\n", orUnknown(r.AssistanceRequest))
	fmt.Fprintf(&b, "\r\nCompleted at: %s\r\n", r.CompletedAt.Format(time.RFC3339))

	return b.String()
}

func orUnknown(v string) string {
	if v == "" {
		return "(not captured)"
	}
	return v
}
