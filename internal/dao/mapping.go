package dao

import (
	"context"

	"signalbridge/internal/model/entity"
)

type MappingDao interface {
	// 查询 (account, source_symbol) 的映射，不存在时返回 (nil, nil)，
	// 调用方按恒等映射处理
	MappingGet(ctx context.Context, accountID, sourceSymbol string) (*entity.SymbolMapping, error)
	MappingsByAccount(ctx context.Context, accountID string) ([]entity.SymbolMapping, error)
	// 同一账户同一源品种重复创建返回ErrDuplicate
	MappingCreate(ctx context.Context, mapping *entity.SymbolMapping) error
	MappingDelete(ctx context.Context, id, accountID string) error
}
