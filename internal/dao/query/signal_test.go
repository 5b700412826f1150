package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"signalbridge/internal/dao"
	"signalbridge/internal/model"
	"signalbridge/internal/model/entity"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试用内存库。MaxOpenConns(1)把并发串行化到单连接上，
// 避免sqlite的database is locked抖动，条件更新的胜负逻辑不受影响。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&entity.User{}, &entity.MTAccount{}, &entity.SymbolMapping{}, &entity.Signal{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedSignal(t *testing.T, db *gorm.DB, mutate func(*entity.Signal)) *entity.Signal {
	t.Helper()
	now := time.Now().UTC()
	s := &entity.Signal{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		AccountID: "account-1",
		Symbol:    "EURUSD",
		Action:    entity.ActionBuy,
		OrderType: entity.OrderTypeMarket,
		Status:    entity.StatusPending,
		Source:    "tradingview",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
	if mutate != nil {
		mutate(s)
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("failed to seed signal: %v", err)
	}
	return s
}

func TestSignalsCreateRejectsUnknownEnums(t *testing.T) {
	d := NewSignalDao(newTestDB(t))
	ctx := context.Background()

	bad := &entity.Signal{
		UserID: "u", AccountID: "a", Symbol: "EURUSD",
		Action: "hold", OrderType: entity.OrderTypeMarket, Status: entity.StatusPending,
		ExpiresAt: time.Now().Add(time.Minute),
	}
	err := d.SignalsCreate(ctx, []*entity.Signal{bad})
	if !errors.Is(err, dao.ErrInvalidEnum) {
		t.Fatalf("expected invalid enum error, got %v", err)
	}
}

func TestSignalsCreateAtomicBatch(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	now := time.Now().UTC()
	good := &entity.Signal{
		UserID: "u", AccountID: "a1", Symbol: "EURUSD",
		Action: entity.ActionBuy, OrderType: entity.OrderTypeMarket,
		Status: entity.StatusPending, CreatedAt: now, ExpiresAt: now.Add(time.Minute),
	}
	dup := &entity.Signal{
		ID:     "fixed-id",
		UserID: "u", AccountID: "a2", Symbol: "EURUSD",
		Action: entity.ActionBuy, OrderType: entity.OrderTypeMarket,
		Status: entity.StatusPending, CreatedAt: now, ExpiresAt: now.Add(time.Minute),
	}
	seedSignal(t, db, func(s *entity.Signal) { s.ID = "fixed-id" })

	err := d.SignalsCreate(ctx, []*entity.Signal{good, dup})
	if err == nil {
		t.Fatal("expected batch to fail on duplicate id")
	}

	// 同批的第一条也必须回滚
	var count int64
	db.Model(&entity.Signal{}).Where("account_id = ?", "a1").Count(&count)
	if count != 0 {
		t.Errorf("expected rollback, found %d rows", count)
	}
}

func TestClaimPendingMarksSent(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	first := seedSignal(t, db, func(s *entity.Signal) {
		s.CreatedAt = time.Now().UTC().Add(-2 * time.Second)
	})
	second := seedSignal(t, db, nil)
	// 其他账户的信号不能被领走
	seedSignal(t, db, func(s *entity.Signal) { s.AccountID = "account-2" })

	now := time.Now().UTC()
	claimed, err := d.ClaimPending(ctx, "account-1", now, 50)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d signals, want 2", len(claimed))
	}
	// created_at升序
	if claimed[0].ID != first.ID || claimed[1].ID != second.ID {
		t.Errorf("claim order wrong: got %s, %s", claimed[0].ID, claimed[1].ID)
	}
	for _, s := range claimed {
		if s.Status != entity.StatusSent || s.SentAt == nil {
			t.Errorf("signal %s not marked sent", s.ID)
		}
	}

	// 第二次领取拿不到任何东西
	again, err := d.ClaimPending(ctx, "account-1", now, 50)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second claim returned %d signals, want 0", len(again))
	}
}

func TestClaimPendingSkipsExpired(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	seedSignal(t, db, func(s *entity.Signal) {
		s.ExpiresAt = time.Now().UTC().Add(-time.Second)
	})

	claimed, err := d.ClaimPending(ctx, "account-1", time.Now().UTC(), 50)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if len(claimed) != 0 {
		t.Errorf("claimed %d expired signals, want 0", len(claimed))
	}
}

func TestClaimPendingRespectsLimit(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedSignal(t, db, nil)
	}
	claimed, err := d.ClaimPending(ctx, "account-1", time.Now().UTC(), 3)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if len(claimed) != 3 {
		t.Errorf("claimed %d signals, want 3", len(claimed))
	}
}

// 并发轮询同一账户，每条信号只能被领走一次
func TestClaimPendingConcurrent(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	const total = 20
	for i := 0; i < total; i++ {
		seedSignal(t, db, nil)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan []entity.Signal, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := d.ClaimPending(ctx, "account-1", time.Now().UTC(), total)
			if err != nil {
				t.Errorf("claim failed: %v", err)
				return
			}
			results <- claimed
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]int)
	for claimed := range results {
		for _, s := range claimed {
			seen[s.ID]++
		}
	}
	if len(seen) != total {
		t.Errorf("claimed %d distinct signals, want %d", len(seen), total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("signal %s claimed %d times", id, n)
		}
	}
}

// 领取和过期清扫竞争同一行，恰好一方赢
func TestClaimVersusExpire(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	boundary := time.Now().UTC()
	s := seedSignal(t, db, func(sig *entity.Signal) { sig.ExpiresAt = boundary })

	var wg sync.WaitGroup
	var claimed []entity.Signal
	var expired int64
	wg.Add(2)
	go func() {
		defer wg.Done()
		// 领取方视角里信号还没过期
		claimed, _ = d.ClaimPending(ctx, "account-1", boundary.Add(-time.Millisecond), 10)
	}()
	go func() {
		defer wg.Done()
		expired, _ = d.ExpireOldSignals(ctx, boundary)
	}()
	wg.Wait()

	var got entity.Signal
	if err := db.Where("id = ?", s.ID).First(&got).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	switch got.Status {
	case entity.StatusSent:
		if len(claimed) != 1 {
			t.Errorf("sent but claim returned %d rows", len(claimed))
		}
		if expired != 0 {
			t.Errorf("sent but expire also reported %d rows", expired)
		}
	case entity.StatusExpired:
		if len(claimed) != 0 {
			t.Errorf("expired but claim also returned %d rows", len(claimed))
		}
		if expired != 1 {
			t.Errorf("expired but expire reported %d rows", expired)
		}
	default:
		t.Errorf("unexpected final status %s", got.Status)
	}
}

func TestSignalApplyResult(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()
	now := time.Now().UTC()

	s := seedSignal(t, db, func(sig *entity.Signal) {
		sig.Status = entity.StatusSent
		sig.SentAt = &now
	})

	ticket := int64(123456)
	price := 1.1001
	updated, err := d.SignalApplyResult(ctx, s.ID, "account-1", &model.SignalResult{
		Success:       true,
		Ticket:        &ticket,
		ExecutedPrice: &price,
	}, now)
	if err != nil {
		t.Fatalf("apply result failed: %v", err)
	}
	if updated.Status != entity.StatusExecuted {
		t.Errorf("status = %s, want executed", updated.Status)
	}
	if updated.ExecutedAt == nil {
		t.Error("executed_at not set")
	}
	if len(updated.ExecutionResult) == 0 {
		t.Error("execution_result not persisted")
	}

	// 终态后再报一次必须被拒
	_, err = d.SignalApplyResult(ctx, s.ID, "account-1", &model.SignalResult{Success: true}, now)
	if err != dao.ErrStateConflict {
		t.Errorf("expected state conflict, got %v", err)
	}
}

func TestSignalApplyResultFailure(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()
	now := time.Now().UTC()

	s := seedSignal(t, db, func(sig *entity.Signal) { sig.Status = entity.StatusSent })

	code := int64(134)
	updated, err := d.SignalApplyResult(ctx, s.ID, "account-1", &model.SignalResult{
		Success:      false,
		ErrorCode:    &code,
		ErrorMessage: "not enough money",
	}, now)
	if err != nil {
		t.Fatalf("apply result failed: %v", err)
	}
	if updated.Status != entity.StatusFailed {
		t.Errorf("status = %s, want failed", updated.Status)
	}
	if updated.ErrorMessage != "not enough money" {
		t.Errorf("error_message = %q", updated.ErrorMessage)
	}
}

func TestSignalApplyResultGuards(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := d.SignalApplyResult(ctx, "missing", "account-1", &model.SignalResult{Success: true}, now)
	if err != dao.ErrNotFound {
		t.Errorf("expected not found, got %v", err)
	}

	s := seedSignal(t, db, func(sig *entity.Signal) { sig.Status = entity.StatusSent })
	_, err = d.SignalApplyResult(ctx, s.ID, "other-account", &model.SignalResult{Success: true}, now)
	if err != dao.ErrPermission {
		t.Errorf("expected permission error, got %v", err)
	}

	// pending的信号不能直接回报
	p := seedSignal(t, db, nil)
	_, err = d.SignalApplyResult(ctx, p.ID, "account-1", &model.SignalResult{Success: true}, now)
	if err != dao.ErrStateConflict {
		t.Errorf("expected state conflict, got %v", err)
	}
}

func TestSignalCancel(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()
	now := time.Now().UTC()

	s := seedSignal(t, db, nil)
	if err := d.SignalCancel(ctx, s.ID, "user-1", now); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	var got entity.Signal
	db.Where("id = ?", s.ID).First(&got)
	if got.Status != entity.StatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}

	// 已领取的不能取消，响应和不存在一致
	sent := seedSignal(t, db, func(sig *entity.Signal) { sig.Status = entity.StatusSent })
	if err := d.SignalCancel(ctx, sent.ID, "user-1", now); err != dao.ErrNotFound {
		t.Errorf("expected not found for sent signal, got %v", err)
	}

	// 别人的信号也报不存在
	other := seedSignal(t, db, nil)
	if err := d.SignalCancel(ctx, other.ID, "user-2", now); err != dao.ErrNotFound {
		t.Errorf("expected not found for foreign signal, got %v", err)
	}
}

func TestExpireOldSignalsIdempotent(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedSignal(t, db, func(s *entity.Signal) { s.ExpiresAt = now.Add(-time.Second) })
	seedSignal(t, db, func(s *entity.Signal) { s.ExpiresAt = now.Add(-time.Second) })
	// 未到期和已sent的不受影响
	seedSignal(t, db, nil)
	seedSignal(t, db, func(s *entity.Signal) {
		s.Status = entity.StatusSent
		s.ExpiresAt = now.Add(-time.Second)
	})

	n, err := d.ExpireOldSignals(ctx, now)
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expired %d rows, want 2", n)
	}

	// 再跑一轮没有新变化
	n, err = d.ExpireOldSignals(ctx, now)
	if err != nil {
		t.Fatalf("second expire failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep expired %d rows, want 0", n)
	}
}

func TestSignalList(t *testing.T) {
	db := newTestDB(t)
	d := NewSignalDao(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedSignal(t, db, func(s *entity.Signal) {
			s.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		})
	}
	seedSignal(t, db, func(s *entity.Signal) {
		s.Status = entity.StatusExecuted
		s.Symbol = "XAUUSD"
	})
	seedSignal(t, db, func(s *entity.Signal) { s.UserID = "user-2" })

	signals, total, err := d.SignalList(ctx, "user-1", model.SignalListReq{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 4 || len(signals) != 4 {
		t.Errorf("got total=%d len=%d, want 4/4", total, len(signals))
	}

	signals, total, err = d.SignalList(ctx, "user-1", model.SignalListReq{
		Status: entity.StatusExecuted, Page: 1, PerPage: 10,
	})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 1 || signals[0].Symbol != "XAUUSD" {
		t.Errorf("status filter wrong: total=%d", total)
	}

	_, _, err = d.SignalList(ctx, "user-1", model.SignalListReq{Status: "bogus", Page: 1, PerPage: 10})
	if !errors.Is(err, dao.ErrInvalidEnum) {
		t.Errorf("expected invalid enum for bogus status, got %v", err)
	}

	// 分页
	signals, total, err = d.SignalList(ctx, "user-1", model.SignalListReq{Page: 2, PerPage: 3})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 4 || len(signals) != 1 {
		t.Errorf("pagination wrong: total=%d len=%d", total, len(signals))
	}
}
