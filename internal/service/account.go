package service

import (
	"context"

	"signalbridge/internal/consts"
	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"
	"signalbridge/utils"
)

// AccountService MT账户和品种映射的管理面
type AccountService struct {
	accounts dao.AccountDao
	mappings dao.MappingDao
}

func NewAccountService(ad dao.AccountDao, md dao.MappingDao) *AccountService {
	return &AccountService{accounts: ad, mappings: md}
}

// Create 新账户默认激活，api key只在此处返回明文
func (s *AccountService) Create(ctx context.Context, userID string, req *model.AccountCreateReq) (*entity.MTAccount, error) {
	account := &entity.MTAccount{
		UserID:        userID,
		Name:          req.Name,
		Broker:        req.Broker,
		AccountNumber: req.AccountNumber,
		Platform:      req.Platform,
		ApiKey:        utils.RandString(consts.SecretLength),
		IsActive:      true,
		Settings:      req.Settings,
	}
	if err := s.accounts.AccountCreate(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id, userID string) (*entity.MTAccount, error) {
	return s.accounts.AccountGetForUser(ctx, id, userID)
}

func (s *AccountService) List(ctx context.Context, userID string) ([]entity.MTAccount, error) {
	return s.accounts.AccountsByUser(ctx, userID)
}

func (s *AccountService) Update(ctx context.Context, id, userID string, req *model.AccountUpdateReq) (*entity.MTAccount, error) {
	account, err := s.accounts.AccountGetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Broker != nil {
		account.Broker = *req.Broker
	}
	if req.AccountNumber != nil {
		account.AccountNumber = *req.AccountNumber
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.Settings != nil {
		account.Settings = req.Settings
	}
	if err := s.accounts.AccountUpdate(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id, userID string) error {
	return s.accounts.AccountDelete(ctx, id, userID)
}

// RegenerateKey 旧key立即失效，新key只返回这一次
func (s *AccountService) RegenerateKey(ctx context.Context, id, userID string) (*model.AccountKeyRes, error) {
	newKey := utils.RandString(consts.SecretLength)
	if err := s.accounts.AccountResetKey(ctx, id, userID, newKey); err != nil {
		return nil, err
	}
	return &model.AccountKeyRes{AccountID: id, ApiKey: newKey}, nil
}

func (s *AccountService) ListMappings(ctx context.Context, accountID, userID string) ([]entity.SymbolMapping, error) {
	if _, err := s.accounts.AccountGetForUser(ctx, accountID, userID); err != nil {
		return nil, err
	}
	return s.mappings.MappingsByAccount(ctx, accountID)
}

func (s *AccountService) CreateMapping(ctx context.Context, accountID, userID string, req *model.MappingCreateReq) (*entity.SymbolMapping, error) {
	if _, err := s.accounts.AccountGetForUser(ctx, accountID, userID); err != nil {
		return nil, err
	}
	mapping := &entity.SymbolMapping{
		AccountID:    accountID,
		SourceSymbol: req.SourceSymbol,
		MTSymbol:     req.MTSymbol,
	}
	if req.LotMultiplier != nil {
		mapping.LotMultiplier = *req.LotMultiplier
	}
	if err := s.mappings.MappingCreate(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

func (s *AccountService) DeleteMapping(ctx context.Context, mappingID, accountID, userID string) error {
	if _, err := s.accounts.AccountGetForUser(ctx, accountID, userID); err != nil {
		return err
	}
	return s.mappings.MappingDelete(ctx, mappingID, accountID)
}
