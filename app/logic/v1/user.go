package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/wayfinder-ai/wayfinder/app/core"
	"github.com/wayfinder-ai/wayfinder/pkg/errors"
	"github.com/wayfinder-ai/wayfinder/pkg/i18n"
	"github.com/wayfinder-ai/wayfinder/pkg/types"
	"github.com/wayfinder-ai/wayfinder/pkg/utils"
)

type UserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *UserLogic) GetUser() (*types.User, error) {
	data, err := l.core.Store().UserStore().GetUser(l.ctx, l.GetUserInfo().User)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.GetUser.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if data == nil {
		return nil, errors.New("UserLogic.GetUser.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return data, nil
}

// UpdateProfile overwrites the location fields the pipeline folds into
// personal context.
func (l *UserLogic) UpdateProfile(profile types.UserProfile) error {
	if err := l.core.Store().UserStore().UpdateProfile(l.ctx, l.GetUserInfo().User, profile); err != nil {
		return errors.New("UserLogic.UpdateProfile.UserStore.UpdateProfile", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// InitDefaultUser bootstraps an admin account with a long lived access token
// on first start. The token is only printed once, to the service log.
func InitDefaultUser(ctx context.Context, core *core.Core) error {
	total, err := core.Store().UserStore().Total(ctx)
	if err != nil {
		return errors.New("InitDefaultUser.UserStore.Total", i18n.ERROR_INTERNAL, err)
	}
	if total > 0 {
		return nil
	}

	userID := utils.GenRandomID()
	accessToken := utils.RandomStr(100)
	err = core.Store().Transaction(ctx, func(ctx context.Context) error {
		err := core.Store().UserStore().Create(ctx, types.User{
			ID:    userID,
			Name:  "Admin",
			Email: "admin@localhost",
		})
		if err != nil {
			return errors.New("InitDefaultUser.UserStore.Create", i18n.ERROR_INTERNAL, err)
		}

		err = core.Store().AccessTokenStore().Create(ctx, types.AccessToken{
			UserID:    userID,
			Token:     accessToken,
			Info:      "Admin user token",
			ExpiresAt: time.Now().AddDate(999, 0, 0).Unix(),
		})
		if err != nil {
			return errors.New("InitDefaultUser.AccessTokenStore.Create", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("default admin user created", slog.String("user_id", userID), slog.String("access_token", accessToken))
	return nil
}
