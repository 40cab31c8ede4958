package types

const (
	NO_PAGINATION = 0
)

type WsEventType int32

const (
	WS_EVENT_UNKNOWN            WsEventType = 0
	WS_EVENT_ASSISTANT_PROGRESS WsEventType = 1   // pipeline stage notice
	WS_EVENT_ASSISTANT_FINAL    WsEventType = 2   // pipeline finished, answer attached
	WS_EVENT_AGENT_ACTION       WsEventType = 3   // research delegate activity
	WS_EVENT_PIPELINE_ERROR     WsEventType = 4   // pipeline aborted
	WS_EVENT_SYSTEM_ONSUBSCRIBE WsEventType = 300 // conversation topic subscribed
	WS_EVENT_SYSTEM_UNSUBSCRIBE WsEventType = 301 // conversation topic unsubscribed
	WS_EVENT_OTHERS             WsEventType = 400
)

const (
	LANGUAGE_EN_KEY = "en"
	LANGUAGE_CN_KEY = "zh-CN"
)

const (
	USER_ROLE      = "user"
	ASSISTANT_ROLE = "assistant"
)
