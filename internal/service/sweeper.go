package service

import (
	"context"
	"time"

	"signalbridge/conf"
	"signalbridge/pkg/logger"
)

// ExpirySweeper 周期性把超过expires_at仍pending的信号翻成expired。
// 清扫是幂等的，靠条件更新，和并发领取竞争时谁先改到行谁赢。
type ExpirySweeper struct {
	processor *SignalProcessor
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewExpirySweeper(processor *SignalProcessor, cfg conf.SignalConfig) *ExpirySweeper {
	return &ExpirySweeper{
		processor: processor,
		interval:  cfg.SweepInterval(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *ExpirySweeper) Start() {
	go s.run()
	logger.Infof("expiry sweeper started, interval %s", s.interval)
}

func (s *ExpirySweeper) Stop() {
	close(s.stop)
	<-s.done
	logger.Info("expiry sweeper stopped")
}

func (s *ExpirySweeper) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := s.processor.ExpireOldSignals(ctx)
	if err != nil {
		logger.Errorf("expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		logger.Infof("expired %d stale signals", n)
	}
}
