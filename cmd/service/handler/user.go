package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/app/response"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

func (s *HttpSrv) ListUserFacts(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	facts, err := v1.NewKnowledgeLogic(c, s.Core).ListUserFacts(claims.User)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, facts)
}

func (s *HttpSrv) DeleteUserFact(c *gin.Context) {
	claims, _ := v1.InjectTokenClaim(c)
	factID, _ := c.Params.Get("fact")
	if err := v1.NewKnowledgeLogic(c, s.Core).DeleteFact(claims.User, factID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	user, err := v1.NewUserLogic(c, s.Core).GetUser()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, user)
}

type UpdateUserProfileRequest struct {
	City       string `json:"city" form:"city"`
	PostalCode string `json:"postal_code" form:"postal_code"`
	Country    string `json:"country" form:"country"`
}

func (s *HttpSrv) UpdateUserProfile(c *gin.Context) {
	var (
		err error
		req UpdateUserProfileRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err = v1.NewUserLogic(c, s.Core).UpdateProfile(types.UserProfile{
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, response.EmptyStruct{})
}
