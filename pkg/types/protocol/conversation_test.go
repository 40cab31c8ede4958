package protocol

import "testing"

func TestIMTopicRoundTrip(t *testing.T) {
	topic := GenIMTopic("conv-123")
	if topic != "/conversation/conv-123" {
		t.Errorf("unexpected topic: %s", topic)
	}
	if !IsIMTopic(topic) {
		t.Error("generated topic should be recognized")
	}
	if got := GetConversationUUID(topic); got != "conv-123" {
		t.Errorf("uuid extraction failed: %s", got)
	}
}

func TestIsIMTopic_Foreign(t *testing.T) {
	for _, topic := range []string{"/user/1", "conversation/abc", ""} {
		if IsIMTopic(topic) {
			t.Errorf("%q should not be an IM topic", topic)
		}
	}
}
