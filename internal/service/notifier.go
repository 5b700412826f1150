package service

import (
	"fmt"

	"signalbridge/conf"
	"signalbridge/internal/model/entity"
	"signalbridge/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier 信号关键节点的通知出口
type Notifier interface {
	SignalCreated(signal *entity.Signal)
	SignalExecuted(signal *entity.Signal)
	SignalFailed(signal *entity.Signal, errMsg string)
}

type telegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
}

// NewNotifier telegram未启用或初始化失败时退化为只记日志
func NewNotifier(cfg conf.TelegramConfig) Notifier {
	if !cfg.Enabled {
		return &telegramNotifier{enabled: false}
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Errorf("failed to create telegram bot: %v", err)
		return &telegramNotifier{enabled: false}
	}
	logger.Infof("telegram bot connected: %s", bot.Self.UserName)
	return &telegramNotifier{bot: bot, chatID: cfg.ChatID, enabled: true}
}

func (n *telegramNotifier) SignalCreated(s *entity.Signal) {
	logger.Info("signal created",
		logger.Pair("signal_id", s.ID),
		logger.Pair("symbol", s.Symbol),
		logger.Pair("action", s.Action))
	n.send(fmt.Sprintf("📨 New signal\n%s %s\naccount: %s", s.Action, s.Symbol, s.AccountID))
}

func (n *telegramNotifier) SignalExecuted(s *entity.Signal) {
	logger.Info("signal executed",
		logger.Pair("signal_id", s.ID),
		logger.Pair("symbol", s.Symbol),
		logger.Pair("action", s.Action))
	n.send(fmt.Sprintf("✅ Executed\n%s %s\nsignal: %s", s.Action, s.Symbol, s.ID))
}

func (n *telegramNotifier) SignalFailed(s *entity.Signal, errMsg string) {
	logger.Warn("signal failed",
		logger.Pair("signal_id", s.ID),
		logger.Pair("symbol", s.Symbol),
		logger.Pair("error", errMsg))
	n.send(fmt.Sprintf("⚠️ Failed\n%s %s\nsignal: %s\n%s", s.Action, s.Symbol, s.ID, errMsg))
}

func (n *telegramNotifier) send(text string) {
	if !n.enabled {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		logger.Errorf("send telegram message: %v", err)
	}
}
