package v1

import (
	"context"
	"log/slog"

	"github.com/wayfinder-ai/wayfinder/app/core"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
)

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *types.TokenClaims
}

func (u *_userInfo) GetUserInfo() types.TokenClaims {
	return *u.u
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = types.TokenClaims{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    &userInfo,
		core: core,
	}
}

type UserInfo interface {
	GetUserInfo() types.TokenClaims
}
