package service

import (
	"context"

	"signalbridge/internal/dao"
)

// SymbolMapper 按账户把源品种翻译成MT品种并给出手数乘数。
// 没有配置映射时按恒等处理：(source, 1.0)。
type SymbolMapper struct {
	mappings dao.MappingDao
}

func NewSymbolMapper(md dao.MappingDao) *SymbolMapper {
	return &SymbolMapper{mappings: md}
}

func (m *SymbolMapper) Resolve(ctx context.Context, accountID, sourceSymbol string) (string, float64, error) {
	mapping, err := m.mappings.MappingGet(ctx, accountID, sourceSymbol)
	if err != nil {
		return "", 0, err
	}
	if mapping == nil {
		return sourceSymbol, 1.0, nil
	}
	return mapping.MTSymbol, mapping.LotMultiplier, nil
}

// ScaleQuantity 数量缺省时保持缺省，不补零
func ScaleQuantity(quantity *float64, multiplier float64) *float64 {
	if quantity == nil {
		return nil
	}
	scaled := *quantity * multiplier
	return &scaled
}
