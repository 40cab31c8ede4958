package types

import "time"

// Wire payloads for the conversation notification channel. Field names follow
// the client contract, timestamps are RFC3339.

const (
	EVENT_SUBJECT_PROGRESS     = "progress"
	EVENT_SUBJECT_FINAL        = "final"
	EVENT_SUBJECT_AGENT_ACTION = "agent-action"
	EVENT_SUBJECT_AGENT_ERROR  = "agent-error"
)

const (
	AGENT_ACTION_SEARCHING = "searching"
	AGENT_ACTION_ANALYZING = "analyzing"
	AGENT_ACTION_VISITING  = "visiting"
	AGENT_ACTION_COMPLETED = "completed"
)

type ProgressEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type FinalEvent struct {
	Type                       string              `json:"type"`
	Message                    string              `json:"message"`
	IsAskingForMoreInformation bool                `json:"isAskingForMoreInformation"`
	ScreenshotsWithUrls        []ScreenshotWithURL `json:"screenshotsWithUrls,omitempty"`
	Timestamp                  string              `json:"timestamp"`
}

type AgentActionEvent struct {
	Type      string             `json:"type"`
	Action    string             `json:"action"` // searching | analyzing | visiting | completed
	Details   AgentActionDetails `json:"details"`
	Timestamp string             `json:"timestamp"`
}

type AgentActionDetails struct {
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type AgentErrorEvent struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

type ScreenshotWithURL struct {
	OriginalURL   string `json:"originalUrl"`
	ScreenshotURL string `json:"screenshotUrl"`
}

func EventTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
