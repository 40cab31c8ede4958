package types

// ConversationMessage rows are immutable once written. Ordering within a
// conversation follows created_at, then insertion id.
type ConversationMessage struct {
	ID                         string `json:"id" db:"id"`
	ConversationID             int64  `json:"conversation_id" db:"conversation_id"`
	Role                       string `json:"role" db:"role"` // user | assistant
	Content                    string `json:"content" db:"content"`
	IsAskingForMoreInformation bool   `json:"is_asking_for_more_information" db:"is_asking_for_more_information"`
	CreatedAt                  int64  `json:"created_at" db:"created_at"`
}

// MessageScreenshot only ever attaches to assistant messages.
type MessageScreenshot struct {
	ID            string `json:"id" db:"id"`
	MessageID     string `json:"message_id" db:"message_id"`
	OriginalURL   string `json:"original_url" db:"original_url"`
	ScreenshotURL string `json:"screenshot_url" db:"screenshot_url"`
	CreatedAt     int64  `json:"created_at" db:"created_at"`
}

// HistoryEntry is a client-supplied prior turn used by the
// continue-conversation flow.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
