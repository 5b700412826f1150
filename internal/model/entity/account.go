package entity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PlatformMT4 = "mt4"
	PlatformMT5 = "mt5"
)

// 账户级手数覆盖项，存在settings json里
const (
	SettingMinLotSize = "min_lot_size"
	SettingMaxLotSize = "max_lot_size"
)

// MTAccount 一个MT4/MT5目标账户，EA用api key轮询属于它的信号
type MTAccount struct {
	ID            string `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	UserID        string `gorm:"column:user_id;type:char(36);not null;index:idx_accounts_user" json:"user_id"`
	Name          string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Broker        string `gorm:"column:broker;type:varchar(255)" json:"broker,omitempty"`
	AccountNumber string `gorm:"column:account_number;type:varchar(50)" json:"account_number,omitempty"`
	Platform      string `gorm:"column:platform;type:varchar(10);not null" json:"platform"` // mt4 或 mt5
	ApiKey        string `gorm:"column:api_key;type:varchar(64);not null;uniqueIndex:uk_accounts_api_key" json:"-"`
	// 不能带default标签：gorm建档时会把零值false当缺省吞掉，停用状态写不进去
	IsActive bool `gorm:"column:is_active;not null" json:"is_active"`

	LastConnectedAt *time.Time `gorm:"column:last_connected_at" json:"last_connected_at,omitempty"`

	// 账户级配置（min_lot_size / max_lot_size 等）
	Settings datatypes.JSONMap `gorm:"column:settings" json:"settings"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (MTAccount) TableName() string {
	return "mt_accounts"
}

func ValidPlatform(p string) bool {
	return p == PlatformMT4 || p == PlatformMT5
}
