package callstate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state CallState
	}{
		{
			name:  "empty state",
			state: CallState{},
		},
		{
			name:  "officer only",
			state: CallState{Officer: "Officer Daniels"},
		},
		{
			name: "all fields",
			state: CallState{
				Officer:       "Maria Lopez",
				RecentRelease: FlagYes,
				Urgent:        FlagYes,
				UrgentDetails: "housing and food",
			},
		},
		{
			name: "reserved characters survive",
			state: CallState{
				Officer:       "Smith & Sons? maybe",
				UrgentDetails: "need=help &now? 100%",
			},
		},
		{
			name: "unicode",
			state: CallState{
				Officer: "Renée O'Connor",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Encode(tt.state)
			decoded, err := Decode(ref)
			require.NoError(t, err)
			assert.Equal(t, tt.state, decoded)
		})
	}
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	// A reference written by a newer deployment with extra fields must
	// still decode cleanly.
	decoded, err := Decode("officer=Daniels&future_field=whatever")
	require.NoError(t, err)
	assert.Equal(t, "Daniels", decoded.Officer)
}

func TestDecodeMissingKeysUnset(t *testing.T) {
	// References written before a field existed decode with it unset.
	decoded, err := Decode("officer=Daniels")
	require.NoError(t, err)
	assert.Equal(t, FlagUnset, decoded.RecentRelease)
	assert.Equal(t, FlagUnset, decoded.Urgent)
	assert.Equal(t, "", decoded.UrgentDetails)
}

func TestMonotonicThreading(t *testing.T) {
	// Once officer is set, every later encode/decode cycle carries it
	// unchanged while new fields are folded in.
	s := CallState{Officer: "Officer Daniels"}

	s2, err := Decode(Encode(s))
	require.NoError(t, err)
	s2.RecentRelease = FlagYes

	s3, err := Decode(Encode(s2))
	require.NoError(t, err)
	s3.Urgent = FlagYes
	s3.UrgentDetails = "medication refill"

	s4, err := Decode(Encode(s3))
	require.NoError(t, err)

	assert.Equal(t, "Officer Daniels", s4.Officer)
	assert.Equal(t, FlagYes, s4.RecentRelease)
	assert.Equal(t, FlagYes, s4.Urgent)
	assert.Equal(t, "medication refill", s4.UrgentDetails)
}

func TestFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("officer", "Daniels")
	v.Set("urgent", FlagNo)

	s := FromValues(v)
	assert.Equal(t, "Daniels", s.Officer)
	assert.Equal(t, FlagNo, s.Urgent)
	assert.Equal(t, FlagUnset, s.RecentRelease)
}
