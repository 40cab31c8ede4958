package types

// Conversation is created on the first user utterance and immutable afterwards.
// ID is the internal snowflake key, UUID the opaque token clients address it by.
type Conversation struct {
	ID        int64  `json:"id" db:"id"`
	UUID      string `json:"uuid" db:"uuid"`
	UserID    string `json:"user_id" db:"user_id"`
	Topic     string `json:"topic" db:"topic"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type ConversationDetail struct {
	Conversation
	Messages []ConversationMessageDetail `json:"messages"`
}

type ConversationMessageDetail struct {
	ConversationMessage
	Screenshots []MessageScreenshot `json:"screenshots,omitempty"`
}
