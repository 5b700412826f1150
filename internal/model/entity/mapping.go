package entity

import "time"

// SymbolMapping 账户级的品种翻译规则：
// (account, source_symbol) → (mt_symbol, lot_multiplier)，每个组合唯一。
// 没有映射时按恒等处理，multiplier取1。
type SymbolMapping struct {
	ID            string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	AccountID     string    `gorm:"column:account_id;type:char(36);not null;uniqueIndex:uk_account_source_symbol" json:"account_id"`
	SourceSymbol  string    `gorm:"column:source_symbol;type:varchar(50);not null;uniqueIndex:uk_account_source_symbol" json:"source_symbol"`
	MTSymbol      string    `gorm:"column:mt_symbol;type:varchar(50);not null" json:"mt_symbol"`
	LotMultiplier float64   `gorm:"column:lot_multiplier;type:decimal(10,4);not null;default:1.0" json:"lot_multiplier"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (SymbolMapping) TableName() string {
	return "symbol_mappings"
}
