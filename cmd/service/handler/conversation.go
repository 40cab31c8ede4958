package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/app/response"
	"github.com/wayfinder-ai/wayfinder/pkg/errors"
	"github.com/wayfinder-ai/wayfinder/pkg/i18n"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

type ListConversationsRequest struct {
	Page     uint64 `json:"page" form:"page" binding:"required"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required"`
}

type ListConversationsResponse struct {
	List  []types.Conversation `json:"list"`
	Total int64                `json:"total"`
}

func (s *HttpSrv) ListConversations(c *gin.Context) {
	var (
		err error
		req ListConversationsRequest
	)

	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewConversationLogic(c, s.Core).ListUserConversations(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListConversationsResponse{
		List:  list,
		Total: total,
	})
}

func (s *HttpSrv) GetConversation(c *gin.Context) {
	uuid, exist := c.Params.Get("conversation")
	if !exist || uuid == "" {
		response.APIError(c, errors.New("api.GetConversation", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	detail, err := v1.NewConversationLogic(c, s.Core).GetConversationWithMessages(uuid)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}
