package query

import (
	"context"
	"errors"
	"fmt"

	"signalbridge/internal/dao"
	"signalbridge/internal/model/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userDao struct {
	db *gorm.DB
}

func NewUserDao(db *gorm.DB) dao.UserDao {
	return &userDao{db: db}
}

func (d *userDao) UserCreate(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dao.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (d *userDao) UserGetByID(ctx context.Context, id string) (*entity.User, error) {
	return d.userGetBy(ctx, "id = ?", id)
}

func (d *userDao) UserGetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return d.userGetBy(ctx, "email = ?", email)
}

func (d *userDao) UserGetByWebhookSecret(ctx context.Context, secret string) (*entity.User, error) {
	return d.userGetBy(ctx, "webhook_secret = ?", secret)
}

func (d *userDao) userGetBy(ctx context.Context, cond string, arg interface{}) (*entity.User, error) {
	var user entity.User
	result := d.db.WithContext(ctx).Where(cond, arg).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, dao.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get user: %w", result.Error)
	}
	return &user, nil
}

func (d *userDao) UserUpdateWebhookSecret(ctx context.Context, id, secret string) error {
	result := d.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("webhook_secret", secret)
	if result.Error != nil {
		return fmt.Errorf("failed to update webhook secret: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return dao.ErrNotFound
	}
	return nil
}
