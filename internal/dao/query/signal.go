package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signalbridge/internal/consts"
	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type signalDao struct {
	db *gorm.DB
}

func NewSignalDao(db *gorm.DB) dao.SignalDao {
	return &signalDao{db: db}
}

// SignalsCreate 事务性地入库一次扇出产生的全部信号。
// 任何一条失败整批回滚，避免部分账户收到信号而兄弟账户静默丢失。
func (d *signalDao) SignalsCreate(ctx context.Context, signals []*entity.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	// 存储边界的枚举校验：未知值直接拒绝，不依赖数据库约束
	for _, s := range signals {
		if !entity.ValidAction(s.Action) {
			return fmt.Errorf("%w: action %q", dao.ErrInvalidEnum, s.Action)
		}
		if !entity.ValidOrderType(s.OrderType) {
			return fmt.Errorf("%w: order_type %q", dao.ErrInvalidEnum, s.OrderType)
		}
		if !entity.ValidStatus(s.Status) {
			return fmt.Errorf("%w: status %q", dao.ErrInvalidEnum, s.Status)
		}
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range signals {
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			if result := tx.Create(s); result.Error != nil {
				return fmt.Errorf("failed to create signal: %w", result.Error)
			}
		}
		return nil
	})
}

func (d *signalDao) SignalGetByID(ctx context.Context, id string) (*entity.Signal, error) {
	var signal entity.Signal
	result := d.db.WithContext(ctx).Where("id = ?", id).First(&signal)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get signal: %w", result.Error)
	}
	return &signal, nil
}

func (d *signalDao) SignalGetForUser(ctx context.Context, id, userID string) (*entity.Signal, error) {
	var signal entity.Signal
	result := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&signal)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get signal: %w", result.Error)
	}
	return &signal, nil
}

// ClaimPending 领取待执行信号并原子地翻到sent。
// 逐行条件更新（WHERE status='pending'）保证同一行绝不会发给两个轮询方：
// 并发的领取、取消或过期清扫先提交的一方赢，这里RowsAffected为0的行直接放弃。
func (d *signalDao) ClaimPending(ctx context.Context, accountID string, now time.Time, limit int) ([]entity.Signal, error) {
	var claimed []entity.Signal
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []entity.Signal
		if err := tx.
			Where("account_id = ? AND status = ? AND expires_at > ?",
				accountID, entity.StatusPending, now).
			Order("created_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to load pending signals: %w", err)
		}

		for i := range rows {
			result := tx.Model(&entity.Signal{}).
				Where("id = ? AND status = ?", rows[i].ID, entity.StatusPending).
				Updates(map[string]interface{}{
					"status":  entity.StatusSent,
					"sent_at": now,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to mark signal sent: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				// 输给了并发的迁移，这一行不返回
				continue
			}
			rows[i].Status = entity.StatusSent
			sentAt := now
			rows[i].SentAt = &sentAt
			claimed = append(claimed, rows[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// SignalApplyResult 应用EA回报，仅允许sent→executed|failed。
// 归属校验失败必须显式报错，不能静默忽略。
func (d *signalDao) SignalApplyResult(ctx context.Context, id, accountID string, result *model.SignalResult, now time.Time) (*entity.Signal, error) {
	var updated *entity.Signal
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var signal entity.Signal
		r := tx.Where("id = ?", id).First(&signal)
		if errors.Is(r.Error, gorm.ErrRecordNotFound) {
			return dao.ErrNotFound
		}
		if r.Error != nil {
			return fmt.Errorf("failed to load signal: %w", r.Error)
		}
		if accountID != "" && signal.AccountID != accountID {
			return dao.ErrPermission
		}
		if signal.Status != entity.StatusSent {
			return dao.ErrStateConflict
		}

		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode execution result: %w", err)
		}

		updates := map[string]interface{}{
			"execution_result": payload,
		}
		if result.Success {
			updates["status"] = entity.StatusExecuted
			updates["executed_at"] = now
		} else {
			updates["status"] = entity.StatusFailed
			updates["error_message"] = result.ErrorMessage
		}

		// 再次以status=sent为条件，和并发回报互斥
		res := tx.Model(&entity.Signal{}).
			Where("id = ? AND status = ?", id, entity.StatusSent).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to apply result: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return dao.ErrStateConflict
		}

		if err := tx.Where("id = ?", id).First(&signal).Error; err != nil {
			return fmt.Errorf("failed to reload signal: %w", err)
		}
		updated = &signal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SignalCancel 取消一条pending信号。
// 统一返回ErrNotFound：不区分"不存在"、"不是你的"和"已经不可取消"，
// 避免向调用方泄露他人资源的存在性。
func (d *signalDao) SignalCancel(ctx context.Context, id, userID string, now time.Time) error {
	result := d.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, entity.StatusPending).
		Update("status", entity.StatusCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel signal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// ExpireOldSignals 把所有过期且仍pending的信号批量翻成expired。
// 单条条件更新天然幂等，已经sent的信号不会被清扫。
func (d *signalDao) ExpireOldSignals(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).Model(&entity.Signal{}).
		Where("status = ? AND expires_at <= ?", entity.StatusPending, now).
		Update("status", entity.StatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire signals: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (d *signalDao) SignalList(ctx context.Context, userID string, req model.SignalListReq) ([]entity.Signal, int64, error) {
	q := d.db.WithContext(ctx).Model(&entity.Signal{}).Where("user_id = ?", userID)

	if req.AccountID != "" {
		q = q.Where("account_id = ?", req.AccountID)
	}
	if req.Status != "" {
		if !entity.ValidStatus(req.Status) {
			return nil, 0, fmt.Errorf("%w: status %q", dao.ErrInvalidEnum, req.Status)
		}
		q = q.Where("status = ?", req.Status)
	}
	if req.Symbol != "" {
		q = q.Where("symbol = ?", req.Symbol)
	}
	if t, ok := parseDate(req.FromDate); ok {
		q = q.Where("created_at >= ?", t)
	}
	if t, ok := parseDate(req.ToDate); ok {
		q = q.Where("created_at <= ?", t)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count signals: %w", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = 50
	}

	var signals []entity.Signal
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&signals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list signals: %w", err)
	}
	return signals, total, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(consts.DateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
