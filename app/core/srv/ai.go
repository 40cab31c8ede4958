package srv

import (
	"context"
	"io"

	"github.com/wayfinder-ai/wayfinder/pkg/ai"
	"github.com/wayfinder-ai/wayfinder/pkg/ai/openai"
)

type AIConfig struct {
	Token           string `toml:"token"`
	Endpoint        string `toml:"endpoint"`
	ChatModel       string `toml:"chat_model"`
	TranscribeModel string `toml:"transcribe_model"`
}

// AI bundles the model capabilities the pipeline consumes. Today a single
// openai-compatible driver backs both, the split keeps the call sites
// driver-agnostic.
type AI struct {
	chat       ai.ChatAI
	transcribe ai.TranscribeAI
	chatModel  string
}

func SetupAI(cfg AIConfig) *AI {
	driver := openai.New(cfg.Token, cfg.Endpoint, ai.ModelName{
		ChatModel:       cfg.ChatModel,
		TranscribeModel: cfg.TranscribeModel,
	})

	return &AI{
		chat:       driver,
		transcribe: driver,
		chatModel:  cfg.ChatModel,
	}
}

func ApplyAI(cfg AIConfig) ApplyFunc {
	return func(s *Srv) {
		s.ai = SetupAI(cfg)
	}
}

func (s *AI) Complete(ctx context.Context, instructions, prompt string) (string, error) {
	return s.chat.Complete(ctx, instructions, prompt)
}

func (s *AI) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	return s.transcribe.Transcribe(ctx, filename, audio)
}

func (s *AI) ChatModel() string {
	return s.chatModel
}
