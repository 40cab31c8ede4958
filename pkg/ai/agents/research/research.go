package research

// client for the external research agent. The agent receives a structured
// third-person brief and answers with free-text findings plus source urls.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wayfinder-ai/wayfinder/pkg/ai"
)

const (
	NAME = "research"

	defaultTimeout = time.Minute * 5
)

// Delegate is the orchestrator-facing contract. Failures propagate,
// the pipeline never masks a research error.
type Delegate interface {
	Research(ctx context.Context, prompt string, conversationID string) (*Result, error)
}

type Result struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// FlattenResult renders findings plus a bullet list of sources into the
// single text block consumed by the humanize stage.
func (r *Result) FlattenResult() string {
	var buf bytes.Buffer
	buf.WriteString(r.Response)
	for _, source := range r.Sources {
		buf.WriteString("\n- ")
		buf.WriteString(source)
	}
	return buf.String()
}

type Client struct {
	client   *http.Client
	endpoint string
	token    string
}

func New(endpoint, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		token:    token,
	}
}

func (s *Client) applyBaseHeader(req *http.Request) {
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", "Bearer "+s.token)
}

type researchRequestBody struct {
	Instructions   string `json:"instructions"`
	Prompt         string `json:"prompt"`
	ConversationID string `json:"conversationId,omitempty"`
}

func (s *Client) Research(ctx context.Context, prompt string, conversationID string) (*Result, error) {
	slog.Debug("Research", slog.String("driver", NAME), slog.String("conversation_id", conversationID))

	request := researchRequestBody{
		Instructions:   ai.PROMPT_RESEARCH_INSTRUCTIONS,
		Prompt:         prompt,
		ConversationID: conversationID,
	}

	raw, _ := json.Marshal(request)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("Failed to build research request: %w", err)
	}
	s.applyBaseHeader(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to request research agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Failed to request research agent, %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result Result
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal research response, %w", err)
	}

	return &result, nil
}
