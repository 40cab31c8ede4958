package service

import (
	"github.com/gin-gonic/gin"

	"github.com/wayfinder-ai/wayfinder/app/core"
	v1 "github.com/wayfinder-ai/wayfinder/app/logic/v1"
	"github.com/wayfinder-ai/wayfinder/app/response"
	"github.com/wayfinder-ai/wayfinder/cmd/service/handler"
	"github.com/wayfinder-ai/wayfinder/cmd/service/middleware"
	"github.com/wayfinder-ai/wayfinder/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return key + ":" + token.User
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.AcceptLanguage())
	s.Engine.Use(middleware.ApiMetrics(s.Core))

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/connect", middleware.AuthorizationFromQuery(s.Core), handler.Websocket(s.Core))

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		assistant := authed.Group("/assistant")
		{
			assistant.POST("/process", userLimit("assistant", core.WithLimit(20)), s.ProcessRequest)
			assistant.POST("/process/history", userLimit("assistant", core.WithLimit(20)), s.ProcessNewMessage)
		}

		conversation := authed.Group("/conversation")
		{
			conversation.GET("/list", s.ListConversations)
			conversation.GET("/:conversation", s.GetConversation)
		}

		user := authed.Group("/user")
		{
			user.GET("/info", s.GetUser)
			user.PUT("/profile", userLimit("profile"), s.UpdateUserProfile)
			user.GET("/facts", s.ListUserFacts)
			user.DELETE("/facts/:fact", s.DeleteUserFact)
		}
	}
}
