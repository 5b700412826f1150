package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signalbridge/conf"
	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"
	"signalbridge/internal/trade"
	"signalbridge/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/multierr"
)

// SignalProcessor 信号生命周期的编排者：
// webhook扇出建档、轮询领取、回报落账、取消、过期清扫。
// 所有状态迁移的原子性由dao层的条件更新保证。
type SignalProcessor struct {
	signals  dao.SignalDao
	accounts dao.AccountDao
	mapper   *SymbolMapper
	vd       *trade.Validator
	notifier Notifier
	cfg      conf.SignalConfig
}

func NewSignalProcessor(
	sd dao.SignalDao,
	ad dao.AccountDao,
	mapper *SymbolMapper,
	vd *trade.Validator,
	notifier Notifier,
	cfg conf.SignalConfig,
) *SignalProcessor {
	return &SignalProcessor{
		signals:  sd,
		accounts: ad,
		mapper:   mapper,
		vd:       vd,
		notifier: notifier,
		cfg:      cfg,
	}
}

// CreateFromWebhook 把一条入站payload扇出成N条账户级信号。
//   - 指定account_id：只投递到该账户，且必须属于该用户并处于激活状态，
//     否则视为0个可投递目标（软失败，不报错）。
//   - 未指定：投递到该用户全部激活账户。
//
// 每个目标账户独立做品种映射和手数缩放，再用该账户的边界复验缩放后的数量，
// 复验失败的账户跳过并记录原因，不影响其余账户。
// 所有产生的信号在一个事务里入库：要么全部成功要么全部回滚。
// 返回空列表表示没有可投递目标，调用方按非错误的no-op处理。
func (p *SignalProcessor) CreateFromWebhook(ctx context.Context, user *entity.User, payload *model.WebhookPayload) ([]entity.Signal, error) {
	var targets []entity.MTAccount

	if payload.AccountID != "" {
		account, err := p.accounts.AccountGetForUser(ctx, payload.AccountID, user.ID)
		if err != nil && !errors.Is(err, dao.ErrNotFound) {
			return nil, err
		}
		if account != nil && account.IsActive {
			targets = append(targets, *account)
		}
	} else {
		accounts, err := p.accounts.AccountsActiveByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		targets = accounts
	}

	if len(targets) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	expiresAt := now.Add(p.cfg.Expiry())

	// 审计快照：除secret外原样保留入站payload
	snapshot := *payload
	snapshot.Secret = ""
	rawPayload, err := json.Marshal(&snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot payload: %w", err)
	}

	orderType := payload.OrderType
	if orderType == "" {
		orderType = entity.OrderTypeMarket
	}
	comment := trade.SanitizeComment(payload.Comment)

	var toCreate []*entity.Signal
	var skipped error
	for i := range targets {
		account := &targets[i]

		symbol, multiplier, err := p.mapper.Resolve(ctx, account.ID, payload.Symbol)
		if err != nil {
			return nil, err
		}
		quantity := ScaleQuantity(payload.Quantity, multiplier)

		// 账户级复验：缩放后的数量要落在该账户自己的边界里
		perAccount := *payload
		perAccount.Quantity = quantity
		if err := p.vd.Validate(&perAccount, account); err != nil {
			logger.Warn("fan-out skipped account",
				logger.Pair("account_id", account.ID),
				logger.Pair("symbol", payload.Symbol),
				logger.Pair("reason", err.Error()))
			skipped = multierr.Append(skipped, fmt.Errorf("account %s: %w", account.ID, err))
			continue
		}

		toCreate = append(toCreate, &entity.Signal{
			UserID:     user.ID,
			AccountID:  account.ID,
			Symbol:     symbol,
			Action:     payload.Action,
			OrderType:  orderType,
			Quantity:   quantity,
			Price:      payload.Price,
			TakeProfit: payload.TakeProfit,
			StopLoss:   payload.StopLoss,
			Comment:    comment,
			Status:     entity.StatusPending,
			Source:     "tradingview",
			RawPayload: rawPayload,
			CreatedAt:  now,
			ExpiresAt:  expiresAt,
		})
	}

	if len(toCreate) == 0 {
		// 所有目标都被边界复验拒绝，也按no-op处理，原因已记日志
		if skipped != nil {
			logger.Infof("fan-out produced no signals: %v", skipped)
		}
		return nil, nil
	}

	if err := p.signals.SignalsCreate(ctx, toCreate); err != nil {
		return nil, err
	}

	created := make([]entity.Signal, 0, len(toCreate))
	for _, s := range toCreate {
		created = append(created, *s)
		p.notifier.SignalCreated(s)
	}
	return created, nil
}

// ClaimPending 领取并原子标记sent，同时刷新账户的最近连接时间
func (p *SignalProcessor) ClaimPending(ctx context.Context, account *entity.MTAccount) ([]entity.Signal, error) {
	now := time.Now().UTC()
	claimed, err := p.signals.ClaimPending(ctx, account.ID, now, p.cfg.ClaimLimit())
	if err != nil {
		return nil, err
	}
	if err := p.accounts.AccountTouchConnected(ctx, account.ID, now); err != nil {
		// 心跳更新失败不影响已领取的信号
		logger.Warnf("touch last_connected_at failed for account %s: %v", account.ID, err)
	}
	return claimed, nil
}

// ReportResult 应用EA执行回报，sent→executed|failed
func (p *SignalProcessor) ReportResult(ctx context.Context, account *entity.MTAccount, signalID string, result *model.SignalResult) (*entity.Signal, error) {
	signal, err := p.signals.SignalApplyResult(ctx, signalID, account.ID, result, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if result.Success {
		p.notifier.SignalExecuted(signal)
	} else {
		p.notifier.SignalFailed(signal, result.ErrorMessage)
	}
	return signal, nil
}

// Cancel 用户取消一条pending信号，输给并发领取时返回dao.ErrNotFound
func (p *SignalProcessor) Cancel(ctx context.Context, userID, signalID string) error {
	return p.signals.SignalCancel(ctx, signalID, userID, time.Now().UTC())
}

// ExpireOldSignals 过期清扫，返回本轮翻成expired的行数
func (p *SignalProcessor) ExpireOldSignals(ctx context.Context) (int64, error) {
	return p.signals.ExpireOldSignals(ctx, time.Now().UTC())
}

func (p *SignalProcessor) GetForUser(ctx context.Context, signalID, userID string) (*entity.Signal, error) {
	return p.signals.SignalGetForUser(ctx, signalID, userID)
}

func (p *SignalProcessor) List(ctx context.Context, userID string, req model.SignalListReq) ([]entity.Signal, int64, error) {
	return p.signals.SignalList(ctx, userID, req)
}
