package protocol

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	ConversationIMTopicPrefix = "/conversation/"
)

func GenIMTopic(conversationUUID string) string {
	return fmt.Sprintf("%s%s", ConversationIMTopicPrefix, conversationUUID)
}

func GetConversationUUID(imtopic string) string {
	return filepath.Base(imtopic)
}

func IsIMTopic(imtopic string) bool {
	return strings.HasPrefix(imtopic, ConversationIMTopicPrefix)
}
