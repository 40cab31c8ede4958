package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// The client depends on these exact field names, a rename here is a breaking
// protocol change.
func TestFinalEventWireContract(t *testing.T) {
	raw, err := json.Marshal(FinalEvent{
		Type:                       EVENT_SUBJECT_FINAL,
		Message:                    "<p>done</p>",
		IsAskingForMoreInformation: false,
		ScreenshotsWithUrls: []ScreenshotWithURL{
			{OriginalURL: "https://a.example", ScreenshotURL: "https://static.example/a.png"},
		},
		Timestamp: EventTimestamp(),
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"type", "message", "isAskingForMoreInformation", "screenshotsWithUrls", "timestamp"} {
		require.Contains(t, decoded, key)
	}

	shots := decoded["screenshotsWithUrls"].([]any)
	first := shots[0].(map[string]any)
	require.Contains(t, first, "originalUrl")
	require.Contains(t, first, "screenshotUrl")
}

func TestFinalEvent_ScreenshotsOmittedWhenEmpty(t *testing.T) {
	raw, err := json.Marshal(FinalEvent{Type: EVENT_SUBJECT_FINAL, IsAskingForMoreInformation: true, Timestamp: EventTimestamp()})
	require.NoError(t, err)
	require.NotContains(t, string(raw), "screenshotsWithUrls")
}

func TestEventTimestamp_RFC3339(t *testing.T) {
	_, err := time.Parse(time.RFC3339, EventTimestamp())
	require.NoError(t, err)
}
