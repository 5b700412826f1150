package model

import (
	"time"

	"signalbridge/internal/model/entity"
)

// PendingSignal EA轮询返回的单条信号，字段名是EA侧协议的一部分，不能改
type PendingSignal struct {
	ID        string   `json:"id"`
	Symbol    string   `json:"symbol"`
	Action    string   `json:"action"`
	OrderType string   `json:"order_type"`
	Quantity  *float64 `json:"quantity,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	Comment    string   `json:"comment,omitempty"`
}

type PendingSignalsResponse struct {
	Signals    []PendingSignal `json:"signals"`
	ServerTime time.Time       `json:"server_time"`
}

// SignalResult EA执行完成后的回报
type SignalResult struct {
	Success          bool     `json:"success"`
	Ticket           *int64   `json:"ticket,omitempty"`
	ExecutedPrice    *float64 `json:"executed_price,omitempty"`
	ExecutedQuantity *float64 `json:"executed_quantity,omitempty"`
	ExecutionTimeMs  *int64   `json:"execution_time_ms,omitempty"`
	ErrorCode        *int64   `json:"error_code,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

// SignalListReq 管理端信号列表的过滤条件
type SignalListReq struct {
	AccountID string `form:"account_id"`
	Status    string `form:"status"`
	Symbol    string `form:"symbol"`
	FromDate  string `form:"from_date"` // 2006-01-02 或 RFC3339
	ToDate    string `form:"to_date"`
	// 不能加omitempty：显式传0会绕过gte校验，后面按PerPage算页数会除零
	Page    int `form:"page,default=1" binding:"gte=1"`
	PerPage int `form:"per_page,default=50" binding:"gte=1,lte=100"`
}

type SignalListResponse struct {
	Signals []entity.Signal `json:"signals"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Pages   int64           `json:"pages"`
}

// NewPendingSignal 实体转EA协议结构
func NewPendingSignal(s *entity.Signal) PendingSignal {
	return PendingSignal{
		ID:         s.ID,
		Symbol:     s.Symbol,
		Action:     s.Action,
		OrderType:  s.OrderType,
		Quantity:   s.Quantity,
		Price:      s.Price,
		TakeProfit: s.TakeProfit,
		StopLoss:   s.StopLoss,
		Comment:    s.Comment,
	}
}
