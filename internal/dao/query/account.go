package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signalbridge/internal/dao"
	"signalbridge/internal/model/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountDao struct {
	db *gorm.DB
}

func NewAccountDao(db *gorm.DB) dao.AccountDao {
	return &accountDao{db: db}
}

func (d *accountDao) AccountCreate(ctx context.Context, account *entity.MTAccount) error {
	if !entity.ValidPlatform(account.Platform) {
		return fmt.Errorf("%w: platform %q", dao.ErrInvalidEnum, account.Platform)
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if err := d.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dao.ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (d *accountDao) AccountGetByApiKey(ctx context.Context, apiKey string) (*entity.MTAccount, error) {
	var account entity.MTAccount
	result := d.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get account by key: %w", result.Error)
	}
	return &account, nil
}

func (d *accountDao) AccountGetForUser(ctx context.Context, id, userID string) (*entity.MTAccount, error) {
	var account entity.MTAccount
	result := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&account)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get account: %w", result.Error)
	}
	return &account, nil
}

func (d *accountDao) AccountsByUser(ctx context.Context, userID string) ([]entity.MTAccount, error) {
	var accounts []entity.MTAccount
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (d *accountDao) AccountsActiveByUser(ctx context.Context, userID string) ([]entity.MTAccount, error) {
	var accounts []entity.MTAccount
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}
	return accounts, nil
}

func (d *accountDao) AccountUpdate(ctx context.Context, account *entity.MTAccount) error {
	result := d.db.WithContext(ctx).Model(&entity.MTAccount{}).
		Where("id = ? AND user_id = ?", account.ID, account.UserID).
		Updates(map[string]interface{}{
			"name":           account.Name,
			"broker":         account.Broker,
			"account_number": account.AccountNumber,
			"is_active":      account.IsActive,
			"settings":       account.Settings,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	// 值没变化时RowsAffected也可能是0，存在性由调用方先行确认
	return nil
}

func (d *accountDao) AccountDelete(ctx context.Context, id, userID string) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.MTAccount{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

func (d *accountDao) AccountTouchConnected(ctx context.Context, id string, now time.Time) error {
	return d.db.WithContext(ctx).Model(&entity.MTAccount{}).
		Where("id = ?", id).
		Update("last_connected_at", now).Error
}

func (d *accountDao) AccountResetKey(ctx context.Context, id, userID, newKey string) error {
	result := d.db.WithContext(ctx).Model(&entity.MTAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("api_key", newKey)
	if result.Error != nil {
		return fmt.Errorf("failed to reset api key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return dao.ErrNotFound
	}
	return nil
}
