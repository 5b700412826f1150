package trade

import (
	"fmt"
	"strings"

	"signalbridge/conf"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"

	"github.com/spf13/cast"
)

// 信号入库前的业务校验，纯函数，不做任何IO。
// 规则顺序固定，第一条失败即返回。

const (
	DefaultMinLot = 0.01
	DefaultMaxLot = 10.0
)

// 高价值品种的内置手数上限，可被配置文件的symbol-limits覆盖或扩展
func builtinSymbolLimits() map[string]conf.LotLimit {
	return map[string]conf.LotLimit{
		"XAUUSD": {MinLot: 0.01, MaxLot: 50.0},
		"GOLD":   {MinLot: 0.01, MaxLot: 50.0},
		"USOIL":  {MinLot: 0.01, MaxLot: 100.0},
		"XTIUSD": {MinLot: 0.01, MaxLot: 100.0},
	}
}

type Validator struct {
	symbolLimits map[string]conf.LotLimit
}

// NewValidator 的limits参数来自配置，按品种覆盖内置表
func NewValidator(limits map[string]conf.LotLimit) *Validator {
	merged := builtinSymbolLimits()
	for sym, l := range limits {
		merged[strings.ToUpper(sym)] = l
	}
	return &Validator{symbolLimits: merged}
}

// Validate 校验一条入站信号。account可以为nil（intake阶段还没有账户上下文），
// 非nil时账户settings里的min_lot_size/max_lot_size参与边界计算。
func (v *Validator) Validate(p *model.WebhookPayload, account *entity.MTAccount) error {
	if !entity.ValidAction(p.Action) {
		return fmt.Errorf("Invalid action: %s", p.Action)
	}

	if p.Quantity != nil {
		if err := v.validateLotSize(*p.Quantity, p.Symbol, account); err != nil {
			return err
		}
	}

	orderType := p.OrderType
	if orderType == "" {
		orderType = entity.OrderTypeMarket
	}
	if orderType == entity.OrderTypeLimit || orderType == entity.OrderTypeStop {
		if p.Price == nil || *p.Price <= 0 {
			return fmt.Errorf("Price is required for %s orders", orderType)
		}
	}

	if p.TakeProfit != nil && *p.TakeProfit <= 0 {
		return fmt.Errorf("Take profit must be greater than 0")
	}
	if p.StopLoss != nil && *p.StopLoss <= 0 {
		return fmt.Errorf("Stop loss must be greater than 0")
	}

	// TP/SL方向校验只针对买卖类动作，close/close_partial/modify不限制
	if p.TakeProfit != nil && p.StopLoss != nil {
		tp, sl := *p.TakeProfit, *p.StopLoss
		if entity.IsBuyAction(p.Action) && tp <= sl {
			return fmt.Errorf("Take profit must be greater than stop loss for buy orders")
		}
		if entity.IsSellAction(p.Action) && tp >= sl {
			return fmt.Errorf("Take profit must be less than stop loss for sell orders")
		}
	}

	return nil
}

// Bounds 返回品种+账户组合之后的最终手数边界。
// 账户覆盖优先于全局默认，再与品种边界收紧合并：
// max取两者较小，min取两者较大。
func (v *Validator) Bounds(symbol string, account *entity.MTAccount) (minLot, maxLot float64) {
	minLot, maxLot = DefaultMinLot, DefaultMaxLot

	if account != nil && account.Settings != nil {
		if raw, ok := account.Settings[entity.SettingMaxLotSize]; ok {
			if f, err := cast.ToFloat64E(raw); err == nil {
				maxLot = f
			}
		}
		if raw, ok := account.Settings[entity.SettingMinLotSize]; ok {
			if f, err := cast.ToFloat64E(raw); err == nil {
				minLot = f
			}
		}
	}

	if sl, ok := v.symbolLimits[strings.ToUpper(symbol)]; ok {
		if sl.MaxLot < maxLot {
			maxLot = sl.MaxLot
		}
		if sl.MinLot > minLot {
			minLot = sl.MinLot
		}
	}
	return minLot, maxLot
}

func (v *Validator) validateLotSize(quantity float64, symbol string, account *entity.MTAccount) error {
	minLot, maxLot := v.Bounds(symbol, account)
	if quantity < minLot {
		return fmt.Errorf("Lot size %v is below minimum %v", quantity, minLot)
	}
	if quantity > maxLot {
		return fmt.Errorf("Lot size %v exceeds maximum %v", quantity, maxLot)
	}
	return nil
}
