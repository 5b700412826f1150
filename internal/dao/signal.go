package dao

import (
	"context"
	"time"

	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"
)

type SignalDao interface {
	// 事务性地批量入库一次扇出产生的所有信号，全部成功或全部回滚。
	// 入库前校验action/order_type/status枚举，未知值直接拒绝。
	SignalsCreate(ctx context.Context, signals []*entity.Signal) error

	SignalGetByID(ctx context.Context, id string) (*entity.Signal, error)
	// 按归属用户查单条，查不到和不属于该用户都返回ErrNotFound
	SignalGetForUser(ctx context.Context, id, userID string) (*entity.Signal, error)

	// 领取指定账户的待执行信号：只取 pending 且未过期的行，按created_at升序，
	// 在同一事务内逐行条件更新为sent并回填sent_at。
	// 条件更新RowsAffected决定胜负，和并发的领取/清扫/取消互不重复。
	ClaimPending(ctx context.Context, accountID string, now time.Time, limit int) ([]entity.Signal, error)

	// 应用EA回报：仅允许 sent → executed|failed。
	// accountID非空时校验归属，不匹配返回ErrPermission。
	SignalApplyResult(ctx context.Context, id, accountID string, result *model.SignalResult, now time.Time) (*entity.Signal, error)

	// 取消：仅允许 pending → cancelled。查不到、不属于该用户、
	// 状态不允许，统一返回ErrNotFound，不区分原因。
	SignalCancel(ctx context.Context, id, userID string, now time.Time) error

	// 过期清扫：把所有 expires_at<=now 的pending批量翻成expired，
	// 返回受影响行数。幂等，可与自身和领取并发执行。
	ExpireOldSignals(ctx context.Context, now time.Time) (int64, error)

	// 管理端列表查询，带过滤和分页
	SignalList(ctx context.Context, userID string, req model.SignalListReq) ([]entity.Signal, int64, error)
}
