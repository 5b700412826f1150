package dao

import (
	"context"

	"signalbridge/internal/model/entity"
)

type UserDao interface {
	UserCreate(ctx context.Context, user *entity.User) error
	UserGetByID(ctx context.Context, id string) (*entity.User, error)
	UserGetByEmail(ctx context.Context, email string) (*entity.User, error)
	// webhook鉴权入口，secret未知返回ErrNotFound，调用方不得泄露用户是否存在
	UserGetByWebhookSecret(ctx context.Context, secret string) (*entity.User, error)
	UserUpdateWebhookSecret(ctx context.Context, id, secret string) error
}
