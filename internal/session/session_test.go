package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	state := &State{
		Action: ActionPayoutName,
		Key:    "telebirr",
		Data:   map[string]string{"number": "+251911234567"},
	}

	payload, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, state, &decoded)
}

func TestStateOmitsEmptyFields(t *testing.T) {
	payload, err := json.Marshal(&State{Action: ActionBroadcast})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"broadcast"}`, string(payload))
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "sess:123456789", key(123456789))
}
