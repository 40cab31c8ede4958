package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

// ModelName selects the concrete models a driver talks to.
type ModelName struct {
	ChatModel       string
	TranscribeModel string
}

// ChatAI is a single-shot completion against a chat model. instructions is
// the system prompt, prompt the user turn.
type ChatAI interface {
	Complete(ctx context.Context, instructions, prompt string) (string, error)
}

// TranscribeAI converts an audio clip into text.
type TranscribeAI interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// DecisionFromResponse maps a model's sufficiency verdict onto a boolean.
// The protocol is loose on purpose: any response containing "true" counts,
// everything else is treated as a clarification request.
func DecisionFromResponse(response string) bool {
	return strings.Contains(strings.ToLower(response), "true")
}

// DecodeJSONResponse parses a model response expected to carry a JSON
// envelope, tolerating markdown code fences around it. A body that still
// fails to parse is a hard error, callers decide whether to degrade.
func DecodeJSONResponse(response string, dst any) error {
	cleaned := StripCodeFences(response)
	if cleaned == "" {
		return fmt.Errorf("empty model response")
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("failed to decode model json response: %w", err)
	}
	return nil
}

// StripCodeFences removes a surrounding ```json ... ``` (or bare ```) fence.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// NumTokens counts prompt tokens for model. Unknown models fall back to the
// cl100k_base encoding.
func NumTokens(text string, model string) (int, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		if tkm, err = tiktoken.GetEncoding("cl100k_base"); err != nil {
			return 0, fmt.Errorf("encoding for model: %w", err)
		}
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

// TruncateHistory drops the oldest turns until the rendered history fits
// maxTokens. The newest turn always survives.
func TruncateHistory(history []types.HistoryEntry, model string, maxTokens int) []types.HistoryEntry {
	if len(history) == 0 {
		return history
	}

	for start := 0; start < len(history)-1; start++ {
		candidate := history[start:]
		var sb strings.Builder
		for _, h := range candidate {
			sb.WriteString(h.Role)
			sb.WriteString(": ")
			sb.WriteString(h.Content)
			sb.WriteString("\n")
		}
		n, err := NumTokens(sb.String(), model)
		if err != nil || n <= maxTokens {
			return candidate
		}
	}
	return history[len(history)-1:]
}
