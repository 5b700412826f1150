package entity

import (
	"time"

	"gorm.io/datatypes"
)

// 信号动作，来自TradingView告警，透传给EA执行
const (
	ActionBuy          = "buy"
	ActionSell         = "sell"
	ActionBuyLimit     = "buy_limit"
	ActionBuyStop      = "buy_stop"
	ActionSellLimit    = "sell_limit"
	ActionSellStop     = "sell_stop"
	ActionClose        = "close"
	ActionClosePartial = "close_partial"
	ActionModify       = "modify"
)

const (
	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"
	OrderTypeStop   = "stop"
)

// 信号生命周期状态机：
// pending → sent → executed|failed
// pending → expired|cancelled
// executed/failed/expired/cancelled 都是终态，不允许再迁移
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusExecuted  = "executed"
	StatusFailed    = "failed"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

var validActions = map[string]struct{}{
	ActionBuy: {}, ActionSell: {},
	ActionBuyLimit: {}, ActionBuyStop: {},
	ActionSellLimit: {}, ActionSellStop: {},
	ActionClose: {}, ActionClosePartial: {}, ActionModify: {},
}

var validOrderTypes = map[string]struct{}{
	OrderTypeMarket: {}, OrderTypeLimit: {}, OrderTypeStop: {},
}

var validStatuses = map[string]struct{}{
	StatusPending: {}, StatusSent: {}, StatusExecuted: {},
	StatusFailed: {}, StatusExpired: {}, StatusCancelled: {},
}

func ValidAction(a string) bool {
	_, ok := validActions[a]
	return ok
}

func ValidOrderType(t string) bool {
	_, ok := validOrderTypes[t]
	return ok
}

func ValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// IsBuyAction buy类动作，TP必须大于SL
func IsBuyAction(a string) bool {
	return a == ActionBuy || a == ActionBuyLimit || a == ActionBuyStop
}

// IsSellAction sell类动作，TP必须小于SL
func IsSellAction(a string) bool {
	return a == ActionSell || a == ActionSellLimit || a == ActionSellStop
}

// Signal 一条待EA执行的交易信号，由webhook扇出产生，每个目标账户一条
type Signal struct {
	ID        string `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	UserID    string `gorm:"column:user_id;type:char(36);not null;index:idx_signals_user" json:"user_id"`
	AccountID string `gorm:"column:account_id;type:char(36);not null;index:idx_signals_account_status" json:"account_id"`

	Symbol    string   `gorm:"column:symbol;type:varchar(50);not null" json:"symbol"` // 已按账户映射后的品种
	Action    string   `gorm:"column:action;type:varchar(20);not null" json:"action"`
	OrderType string   `gorm:"column:order_type;type:varchar(20);not null;default:market" json:"order_type"`
	Quantity  *float64 `gorm:"column:quantity;type:decimal(10,4)" json:"quantity,omitempty"` // 已乘过lot multiplier
	Price     *float64 `gorm:"column:price;type:decimal(20,8)" json:"price,omitempty"`
	TakeProfit *float64 `gorm:"column:take_profit;type:decimal(20,8)" json:"take_profit,omitempty"`
	StopLoss   *float64 `gorm:"column:stop_loss;type:decimal(20,8)" json:"stop_loss,omitempty"`
	Comment    string   `gorm:"column:comment;type:varchar(64)" json:"comment,omitempty"` // 已清洗，MT限制31字符

	Status string `gorm:"column:status;type:varchar(20);not null;default:pending;index:idx_signals_account_status" json:"status"`
	Source string `gorm:"column:source;type:varchar(50);not null;default:tradingview" json:"source"`

	// 审计快照：入站payload原文，与映射后的字段无关
	RawPayload      datatypes.JSON `gorm:"column:raw_payload" json:"raw_payload,omitempty"`
	ExecutionResult datatypes.JSON `gorm:"column:execution_result" json:"execution_result,omitempty"`
	ErrorMessage    string         `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt  time.Time  `gorm:"column:created_at;index:idx_signals_created" json:"created_at"`
	SentAt     *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	ExecutedAt *time.Time `gorm:"column:executed_at" json:"executed_at,omitempty"`
	// 创建时固定为 created_at + TTL，之后不再变化
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
}

func (Signal) TableName() string {
	return "signals"
}

// IsTerminal 是否已到终态
func (s *Signal) IsTerminal() bool {
	switch s.Status {
	case StatusExecuted, StatusFailed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

func (s *Signal) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
