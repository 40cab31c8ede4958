package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_EXIST             = "error.exist"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	ERROR_ASSISTANT_NO_INPUT     = "error.assistant.no_input"
	ERROR_ASSISTANT_AUDIO_DECODE = "error.assistant.audio_decode"
	ERROR_CONVERSATION_NOT_FOUND = "error.conversation.notfound"
	ERROR_RESEARCH_UNAVAILABLE   = "error.research.unavailable"
)
