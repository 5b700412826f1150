package dao

import (
	"context"
	"time"

	"signalbridge/internal/model/entity"
)

type AccountDao interface {
	AccountCreate(ctx context.Context, account *entity.MTAccount) error
	// EA轮询鉴权入口，key未知返回ErrNotFound
	AccountGetByApiKey(ctx context.Context, apiKey string) (*entity.MTAccount, error)
	// 按归属用户查单个账户，查不到和不属于该用户都返回ErrNotFound
	AccountGetForUser(ctx context.Context, id, userID string) (*entity.MTAccount, error)
	AccountsByUser(ctx context.Context, userID string) ([]entity.MTAccount, error)
	// 扇出目标：该用户所有is_active的账户
	AccountsActiveByUser(ctx context.Context, userID string) ([]entity.MTAccount, error)
	AccountUpdate(ctx context.Context, account *entity.MTAccount) error
	AccountDelete(ctx context.Context, id, userID string) error
	// 每次EA成功鉴权后更新last_connected_at
	AccountTouchConnected(ctx context.Context, id string, now time.Time) error
	AccountResetKey(ctx context.Context, id, userID, newKey string) error
}
