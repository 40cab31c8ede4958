package handler

import (
	"context"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/app/response"
	"github.com/wayfinder-ai/wayfinder/pkg/safe"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

type ProcessRequestResponse struct {
	ConversationID string `json:"conversationId"`
	InitialMessage string `json:"initialMessage"`
	UserID         string `json:"userId"`
}

type ProcessNewMessageResponse struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	Status         string `json:"status"`
}

// ProcessRequest accepts the opening utterance of a conversation, as form
// text or an uploaded audio file. It acknowledges with the conversation id
// immediately and schedules the pipeline detached, leaving the client a
// short grace window to subscribe to the room before the first progress
// event fires.
func (s *HttpSrv) ProcessRequest(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)

	query, err := s.resolveUtterance(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	conversation, _, err := v1.NewConversationLogic(c, s.Core).CreateConversationWithFirstMessage(c.PostForm("conversation_id"), query)
	if err != nil {
		response.APIError(c, err)
		return
	}

	s.schedulePipeline(v1.SubscribeGraceNew, conversation, claims.User, query, false, "new")

	response.APISuccess(c, ProcessRequestResponse{
		ConversationID: conversation.UUID,
		InitialMessage: query,
		UserID:         claims.User,
	})
}

// ProcessNewMessage continues an existing conversation. The user turn is
// persisted by the pipeline itself here, unlike the opening flow where
// conversation creation already stored it.
func (s *HttpSrv) ProcessNewMessage(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)

	conversation, err := v1.NewConversationLogic(c, s.Core).CheckUserConversation(c.PostForm("conversation_id"))
	if err != nil {
		response.APIError(c, err)
		return
	}

	query, err := s.resolveUtterance(c)
	if err != nil {
		response.APIError(c, err)
		return
	}

	s.schedulePipeline(v1.SubscribeGraceContinue, conversation, claims.User, query, true, "continue")

	response.APISuccess(c, ProcessNewMessageResponse{
		ConversationID: conversation.UUID,
		Message:        query,
		Status:         "processing",
	})
}

// resolveUtterance transcribes the uploaded audio when present, otherwise
// falls back to the text field. Transcription happens synchronously so the
// multipart body is fully consumed before the handler returns.
func (s *HttpSrv) resolveUtterance(c *gin.Context) (string, error) {
	var (
		filename string
		audio    multipart.File
	)
	if header, err := c.FormFile("audio"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		filename = header.Filename
		audio = file
	}

	resolver := v1.NewAssistantLogic(c, s.Core)
	if audio != nil {
		return resolver.ResolveInput(filename, audio, "")
	}
	return resolver.ResolveInput("", nil, c.PostForm("text"))
}

func (s *HttpSrv) schedulePipeline(grace time.Duration, conversation *types.Conversation, userID, query string, persistUserTurn bool, flow string) {
	time.AfterFunc(grace, func() {
		safe.Run(func() {
			logic := v1.NewAssistantLogic(context.Background(), s.Core)
			req := v1.AssistantRequest{
				UserID:          userID,
				Query:           query,
				Conversation:    conversation,
				PersistUserTurn: persistUserTurn,
			}

			var err error
			if flow == "new" {
				_, err = logic.ProcessRequest(req)
			} else {
				_, err = logic.ProcessNewMessage(req)
			}
			if err != nil {
				slog.Error("conversation pipeline failed",
					slog.String("flow", flow),
					slog.String("conversation", conversation.UUID),
					slog.String("error", err.Error()))
			}
		})
	})
}
