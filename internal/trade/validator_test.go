package trade

import (
	"strings"
	"testing"

	"signalbridge/conf"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"

	"gorm.io/datatypes"
)

func f(v float64) *float64 { return &v }

func payload(action string, mutate func(*model.WebhookPayload)) *model.WebhookPayload {
	p := &model.WebhookPayload{
		Symbol: "EURUSD",
		Action: action,
	}
	if mutate != nil {
		mutate(p)
	}
	return p
}

func TestValidateAction(t *testing.T) {
	vd := NewValidator(nil)

	for _, action := range []string{"buy", "sell", "buy_limit", "buy_stop",
		"sell_limit", "sell_stop", "close", "close_partial", "modify"} {
		if err := vd.Validate(payload(action, nil), nil); err != nil {
			t.Errorf("action %s: unexpected error %v", action, err)
		}
	}

	err := vd.Validate(payload("hold", nil), nil)
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
	if err.Error() != "Invalid action: hold" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidateLotSize(t *testing.T) {
	vd := NewValidator(nil)

	// 品种上限只收紧不放宽：没有账户覆盖时全局默认10封顶，
	// 金油的内置上限要账户把max_lot_size放宽之后才成为有效边界
	wide := &entity.MTAccount{Settings: datatypes.JSONMap{
		entity.SettingMaxLotSize: 200.0,
	}}

	cases := []struct {
		name     string
		symbol   string
		quantity float64
		account  *entity.MTAccount
		wantErr  string
	}{
		{"below default min", "EURUSD", 0.001, nil, "Lot size 0.001 is below minimum 0.01"},
		{"above default max", "EURUSD", 11, nil, "Lot size 11 exceeds maximum 10"},
		{"at default min", "EURUSD", 0.01, nil, ""},
		{"at default max", "EURUSD", 10, nil, ""},
		{"gold cap never widens default", "XAUUSD", 30, nil, "Lot size 30 exceeds maximum 10"},
		{"gold cap binds under wide account", "XAUUSD", 80, wide, "Lot size 80 exceeds maximum 50"},
		{"gold alias", "GOLD", 80, wide, "Lot size 80 exceeds maximum 50"},
		{"oil within cap", "USOIL", 80, wide, ""},
		{"oil above cap", "XTIUSD", 150, wide, "Lot size 150 exceeds maximum 100"},
		{"symbol case insensitive", "xauusd", 80, wide, "Lot size 80 exceeds maximum 50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := payload("buy", func(p *model.WebhookPayload) {
				p.Symbol = tc.symbol
				p.Quantity = f(tc.quantity)
			})
			err := vd.Validate(p, tc.account)
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tc.wantErr {
				t.Errorf("got %q, want %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateQuantityOptional(t *testing.T) {
	vd := NewValidator(nil)
	// close/modify类信号通常不带数量，数量缺省不参与手数校验
	if err := vd.Validate(payload("close", nil), nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBoundsAccountOverride(t *testing.T) {
	vd := NewValidator(nil)

	account := &entity.MTAccount{Settings: datatypes.JSONMap{
		entity.SettingMinLotSize: 0.1,
		entity.SettingMaxLotSize: 5.0,
	}}

	minLot, maxLot := vd.Bounds("EURUSD", account)
	if minLot != 0.1 || maxLot != 5.0 {
		t.Errorf("got (%v, %v), want (0.1, 5.0)", minLot, maxLot)
	}

	// 没有账户覆盖时，品种上限不放宽全局默认
	_, maxLot = vd.Bounds("XAUUSD", nil)
	if maxLot != DefaultMaxLot {
		t.Errorf("symbol cap must not widen default, got %v", maxLot)
	}

	// 账户上限比品种上限宽时，品种上限收紧生效
	wide := &entity.MTAccount{Settings: datatypes.JSONMap{
		entity.SettingMaxLotSize: 200.0,
	}}
	_, maxLot = vd.Bounds("XAUUSD", wide)
	if maxLot != 50.0 {
		t.Errorf("symbol cap should win, got %v", maxLot)
	}

	// 账户上限比品种上限严时，账户上限生效
	strict := &entity.MTAccount{Settings: datatypes.JSONMap{
		entity.SettingMaxLotSize: 2.0,
	}}
	_, maxLot = vd.Bounds("XAUUSD", strict)
	if maxLot != 2.0 {
		t.Errorf("account cap should win, got %v", maxLot)
	}

	// settings值可能是json decode出来的字符串
	stringy := &entity.MTAccount{Settings: datatypes.JSONMap{
		entity.SettingMaxLotSize: "3.5",
	}}
	_, maxLot = vd.Bounds("EURUSD", stringy)
	if maxLot != 3.5 {
		t.Errorf("string setting should be cast, got %v", maxLot)
	}
}

func TestValidatePriceRequiredForPendingOrders(t *testing.T) {
	vd := NewValidator(nil)

	for _, ot := range []string{"limit", "stop"} {
		p := payload("buy", func(p *model.WebhookPayload) { p.OrderType = ot })
		err := vd.Validate(p, nil)
		if err == nil {
			t.Fatalf("order type %s: expected error", ot)
		}
		want := "Price is required for " + ot + " orders"
		if err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}

		p.Price = f(1.1)
		if err := vd.Validate(p, nil); err != nil {
			t.Errorf("order type %s with price: unexpected error %v", ot, err)
		}
	}

	// market单不要求price
	if err := vd.Validate(payload("buy", nil), nil); err != nil {
		t.Errorf("market order: unexpected error %v", err)
	}
}

func TestValidateTakeProfitStopLoss(t *testing.T) {
	vd := NewValidator(nil)

	p := payload("buy", func(p *model.WebhookPayload) { p.TakeProfit = f(0) })
	if err := vd.Validate(p, nil); err == nil || err.Error() != "Take profit must be greater than 0" {
		t.Errorf("got %v", err)
	}

	p = payload("buy", func(p *model.WebhookPayload) { p.StopLoss = f(-1) })
	if err := vd.Validate(p, nil); err == nil || err.Error() != "Stop loss must be greater than 0" {
		t.Errorf("got %v", err)
	}
}

func TestValidateDirectionality(t *testing.T) {
	vd := NewValidator(nil)

	// buy类：TP必须大于SL
	for _, action := range []string{"buy", "buy_limit", "buy_stop"} {
		p := payload(action, func(p *model.WebhookPayload) {
			p.TakeProfit = f(1.09)
			p.StopLoss = f(1.10)
		})
		err := vd.Validate(p, nil)
		if err == nil || err.Error() != "Take profit must be greater than stop loss for buy orders" {
			t.Errorf("action %s: got %v", action, err)
		}
	}

	// sell类：TP必须小于SL
	for _, action := range []string{"sell", "sell_limit", "sell_stop"} {
		p := payload(action, func(p *model.WebhookPayload) {
			p.TakeProfit = f(1.10)
			p.StopLoss = f(1.09)
		})
		err := vd.Validate(p, nil)
		if err == nil || err.Error() != "Take profit must be less than stop loss for sell orders" {
			t.Errorf("action %s: got %v", action, err)
		}
	}

	// close/modify不做方向校验
	for _, action := range []string{"close", "close_partial", "modify"} {
		p := payload(action, func(p *model.WebhookPayload) {
			p.TakeProfit = f(1.09)
			p.StopLoss = f(1.10)
		})
		if err := vd.Validate(p, nil); err != nil {
			t.Errorf("action %s: unexpected error %v", action, err)
		}
	}
}

func TestValidateRuleOrder(t *testing.T) {
	vd := NewValidator(nil)
	// 多条规则同时违反时，按固定顺序报第一条
	p := payload("hold", func(p *model.WebhookPayload) {
		p.Quantity = f(100)
		p.TakeProfit = f(0)
	})
	err := vd.Validate(p, nil)
	if err == nil || !strings.HasPrefix(err.Error(), "Invalid action") {
		t.Errorf("action rule should fire first, got %v", err)
	}
}

func TestConfiguredSymbolLimits(t *testing.T) {
	vd := NewValidator(map[string]conf.LotLimit{
		"btcusd": {MinLot: 0.01, MaxLot: 5.0},
		"XAUUSD": {MinLot: 0.01, MaxLot: 20.0},
	})

	_, maxLot := vd.Bounds("BTCUSD", nil)
	if maxLot != 5.0 {
		t.Errorf("configured symbol should be uppercased, got %v", maxLot)
	}

	// 配置覆盖内置表。配置的20比内置的50严，账户放宽后收紧到20而不是50
	wide := &entity.MTAccount{Settings: datatypes.JSONMap{
		entity.SettingMaxLotSize: 200.0,
	}}
	_, maxLot = vd.Bounds("XAUUSD", wide)
	if maxLot != 20.0 {
		t.Errorf("config should override builtin, got %v", maxLot)
	}
}
