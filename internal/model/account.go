package model

// 账户和品种映射的管理端请求结构

type AccountCreateReq struct {
	Name          string                 `json:"name" binding:"required,max=255"`
	Broker        string                 `json:"broker" binding:"omitempty,max=255"`
	AccountNumber string                 `json:"account_number" binding:"omitempty,max=50"`
	Platform      string                 `json:"platform" binding:"required,oneof=mt4 mt5"`
	Settings      map[string]interface{} `json:"settings"`
}

type AccountUpdateReq struct {
	Name          *string                `json:"name" binding:"omitempty,max=255"`
	Broker        *string                `json:"broker" binding:"omitempty,max=255"`
	AccountNumber *string                `json:"account_number" binding:"omitempty,max=50"`
	IsActive      *bool                  `json:"is_active"`
	Settings      map[string]interface{} `json:"settings"`
}

// AccountKeyRes 只在创建和重置key时返回一次明文key
type AccountKeyRes struct {
	AccountID string `json:"account_id"`
	ApiKey    string `json:"api_key"`
}

type MappingCreateReq struct {
	SourceSymbol  string   `json:"source_symbol" binding:"required,max=50"`
	MTSymbol      string   `json:"mt_symbol" binding:"required,max=50"`
	LotMultiplier *float64 `json:"lot_multiplier" binding:"omitempty,gt=0"`
}
