package openai

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/wayfinder-ai/wayfinder/pkg/ai"
)

const (
	NAME = "openai"
)

type Driver struct {
	client *openai.Client
	model  ai.ModelName
}

func New(token, proxy string, model ai.ModelName) *Driver {
	cfg := openai.DefaultConfig(token)
	if proxy != "" {
		cfg.BaseURL = proxy
	}

	if model.ChatModel == "" {
		model.ChatModel = openai.GPT4oMini
	}
	if model.TranscribeModel == "" {
		model.TranscribeModel = openai.Whisper1
	}

	return &Driver{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete runs a single system+user exchange and returns the model text.
func (s *Driver) Complete(ctx context.Context, instructions, prompt string) (string, error) {
	slog.Debug("Complete", slog.String("driver", NAME), slog.String("model", s.model.ChatModel))

	req := openai.ChatCompletionRequest{
		Model: s.model.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil || len(resp.Choices) != 1 {
		return "", fmt.Errorf("Completion error: err:%v len(choices):%v", err, len(resp.Choices))
	}

	return resp.Choices[0].Message.Content, nil
}

// Transcribe converts an audio clip to text. filename carries the extension
// the api uses to sniff the container format.
func (s *Driver) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	slog.Debug("Transcribe", slog.String("driver", NAME), slog.String("model", s.model.TranscribeModel))

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model.TranscribeModel,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("Transcription error: %w", err)
	}

	return resp.Text, nil
}
