package query

import (
	"context"
	"errors"
	"fmt"

	"signalbridge/internal/dao"
	"signalbridge/internal/model/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mappingDao struct {
	db *gorm.DB
}

func NewMappingDao(db *gorm.DB) dao.MappingDao {
	return &mappingDao{db: db}
}

// MappingGet 不存在时返回 (nil, nil)，调用方按恒等映射处理
func (d *mappingDao) MappingGet(ctx context.Context, accountID, sourceSymbol string) (*entity.SymbolMapping, error) {
	var mapping entity.SymbolMapping
	result := d.db.WithContext(ctx).
		Where("account_id = ? AND source_symbol = ?", accountID, sourceSymbol).
		First(&mapping)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get symbol mapping: %w", result.Error)
	}
	return &mapping, nil
}

func (d *mappingDao) MappingsByAccount(ctx context.Context, accountID string) ([]entity.SymbolMapping, error) {
	var mappings []entity.SymbolMapping
	err := d.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("source_symbol ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list symbol mappings: %w", err)
	}
	return mappings, nil
}

func (d *mappingDao) MappingCreate(ctx context.Context, mapping *entity.SymbolMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.NewString()
	}
	if mapping.LotMultiplier == 0 {
		mapping.LotMultiplier = 1.0
	}
	// (account_id, source_symbol) 唯一，先查再插，唯一索引兜底并发窗口
	existing, err := d.MappingGet(ctx, mapping.AccountID, mapping.SourceSymbol)
	if err != nil {
		return err
	}
	if existing != nil {
		return dao.ErrDuplicate
	}
	if err := d.db.WithContext(ctx).Create(mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dao.ErrDuplicate
		}
		return fmt.Errorf("failed to create symbol mapping: %w", err)
	}
	return nil
}

func (d *mappingDao) MappingDelete(ctx context.Context, id, accountID string) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&entity.SymbolMapping{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete symbol mapping: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return dao.ErrNotFound
	}
	return nil
}
