package entity

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

// User webhook的归属方，secret用于识别入站信号属于谁
type User struct {
	ID            string `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Email         string `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uk_users_email" json:"email"`
	Username      string `gorm:"column:username;type:varchar(50);not null" json:"username"`
	PasswordHash  string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	WebhookSecret string `gorm:"column:webhook_secret;type:varchar(64);not null;uniqueIndex:uk_users_webhook_secret" json:"-"`
	// 同MTAccount.IsActive，default标签会吞掉false
	IsActive bool `gorm:"column:is_active;not null" json:"is_active"`

	CreatedAt time.Time             `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time             `gorm:"column:updated_at" json:"updated_at"`
	IsDel     soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`

	Accounts []MTAccount `gorm:"foreignKey:user_id;references:id" json:"-"`
	Signals  []Signal    `gorm:"foreignKey:user_id;references:id" json:"-"`
}

func (User) TableName() string {
	return "users"
}
