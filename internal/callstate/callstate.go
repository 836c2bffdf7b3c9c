// Package callstate holds the per-request reconstruction of everything the
// caller has answered so far, and the codec that carries it between webhook
// requests as a URL-escaped continuation reference. The service keeps no
// server-side session: this reference is the only conversation state.
package callstate

import "net/url"

// Flag values for yes/no answers. Empty string means the step has not
// answered yet, or the answer was unclassifiable.
const (
	FlagYes   = "yes"
	FlagNo    = "no"
	FlagUnset = ""
)

// CallState is the accumulated interview state. Fields are additive: a
// field set by an earlier step is never cleared by a later one.
type CallState struct {
	CallerNumber  string
	Officer       string
	RecentRelease string
	Urgent        string
	UrgentDetails string
}

// Continuation reference field names. The encoder and every decoder must
// agree on these exactly; renaming one breaks in-flight calls.
const (
	keyOfficer       = "officer"
	keyRecentRelease = "recent_release"
	keyUrgent        = "urgent"
	keyUrgentDetails = "urgent_details"
)

// Encode serializes the accumulated answers into a query-string reference
// suitable for embedding in the next step's action URL. Only set fields are
// emitted, so references stay short early in the call. CallerNumber is not
// encoded; the gateway resends it with every webhook.
func Encode(s CallState) string {
	v := url.Values{}
	if s.Officer != "" {
		v.Set(keyOfficer, s.Officer)
	}
	if s.RecentRelease != "" {
		v.Set(keyRecentRelease, s.RecentRelease)
	}
	if s.Urgent != "" {
		v.Set(keyUrgent, s.Urgent)
	}
	if s.UrgentDetails != "" {
		v.Set(keyUrgentDetails, s.UrgentDetails)
	}
	return v.Encode()
}

// Decode reconstructs CallState from a continuation reference. Unknown keys
// are ignored and absent keys decode to unset, so references written before
// a field existed keep decoding after it is added.
func Decode(reference string) (CallState, error) {
	v, err := url.ParseQuery(reference)
	if err != nil {
		return CallState{}, err
	}
	return FromValues(v), nil
}

// FromValues reads the continuation fields out of already-parsed query
// values, as delivered by the HTTP layer.
func FromValues(v url.Values) CallState {
	return CallState{
		Officer:       v.Get(keyOfficer),
		RecentRelease: v.Get(keyRecentRelease),
		Urgent:        v.Get(keyUrgent),
		UrgentDetails: v.Get(keyUrgentDetails),
	}
}
