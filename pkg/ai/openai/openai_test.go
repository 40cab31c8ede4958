package openai_test

import (
	"context"
	"os"
	"testing"

	"github.com/wayfinder-ai/wayfinder/pkg/ai"
	"github.com/wayfinder-ai/wayfinder/pkg/ai/openai"
	"github.com/wayfinder-ai/wayfinder/pkg/testutils"
)

// Needs a real endpoint, only runs with credentials in the environment.
func TestComplete(t *testing.T) {
	testutils.LoadEnvOrPanic()
	token := os.Getenv("TEST_OPENAI_TOKEN")
	if token == "" {
		t.Skip("TEST_OPENAI_TOKEN not set")
	}

	driver := openai.New(token, os.Getenv("TEST_OPENAI_ENDPOINT"), ai.ModelName{
		ChatModel: testutils.GetEnvOrDefault("TEST_OPENAI_CHAT_MODEL", "gpt-4o-mini"),
	})

	resp, err := driver.Complete(context.Background(), "You answer with a single word.", "Say hello")
	if err != nil {
		t.Fatal(err)
	}
	if resp == "" {
		t.Error("empty completion")
	}
	t.Log(resp)
}
