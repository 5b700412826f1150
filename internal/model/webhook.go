package model

// WebhookPayload TradingView告警体。secret在body里，TradingView不支持自定义请求头
type WebhookPayload struct {
	Secret    string   `json:"secret" binding:"required"`
	AccountID string   `json:"account_id,omitempty"`
	Symbol    string   `json:"symbol" binding:"required,max=50"`
	Action    string   `json:"action" binding:"required,tradeaction"`
	OrderType string   `json:"order_type,omitempty" binding:"omitempty,oneof=market limit stop"`
	Quantity  *float64 `json:"quantity,omitempty" binding:"omitempty,gte=0"`
	Price     *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	TakeProfit *float64 `json:"take_profit,omitempty" binding:"omitempty,gte=0"`
	StopLoss   *float64 `json:"stop_loss,omitempty" binding:"omitempty,gte=0"`
	Comment    string   `json:"comment,omitempty" binding:"omitempty,max=255"`
}

// WebhookResponse webhook响应，TradingView侧只关心success和message，
// signal_id只在恰好创建一条时返回
type WebhookResponse struct {
	Success        bool   `json:"success"`
	SignalID       string `json:"signal_id,omitempty"`
	Message        string `json:"message"`
	SignalsCreated int    `json:"signals_created"`
}
