package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wayfinder-ai/wayfinder/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
