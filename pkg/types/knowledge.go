package types

// KnowledgeFact is insert-only. Dedup either skips the candidate or inserts
// new rows, it never updates an existing one.
type KnowledgeFact struct {
	ID              string  `json:"id" db:"id"`
	UserID          string  `json:"user_id" db:"user_id"`
	Content         string  `json:"content" db:"content"`
	ConfidenceScore float64 `json:"confidence_score" db:"confidence_score"`
	CreatedAt       int64   `json:"created_at" db:"created_at"`
}

// KnowledgeEvaluation is the decoded result of the relevance classification
// pass over a single utterance.
type KnowledgeEvaluation struct {
	IsRelevant      bool    `json:"isRelevant"`
	Content         string  `json:"content"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// KnowledgeDedupDecision is the decoded result of the dedup pass against the
// user's existing facts.
type KnowledgeDedupDecision struct {
	ShouldInsert bool   `json:"shouldInsert"`
	CleanContent string `json:"cleanContent"`
}
