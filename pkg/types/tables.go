package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "wf_"

const (
	TABLE_CONVERSATION         = TableName("conversation")
	TABLE_CONVERSATION_MESSAGE = TableName("conversation_message")
	TABLE_MESSAGE_SCREENSHOT   = TableName("message_screenshot")
	TABLE_KNOWLEDGE_FACT       = TableName("knowledge_fact")
	TABLE_USER                 = TableName("user")
	TABLE_ACCESS_TOKEN         = TableName("access_token")
)
