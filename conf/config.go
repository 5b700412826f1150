package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（数据库、日志、信号有效期等）

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

type JwtConfig struct {
	Secret string `yaml:"secret"`
	JwtTtl int64  `yaml:"ttl"` // token 有效期（秒）
}

// SignalConfig 控制信号生命周期
type SignalConfig struct {
	ExpirySeconds        int `yaml:"expiry-seconds"`          // 信号创建后多久过期
	MaxPendingPerAccount int `yaml:"max-pending-per-account"` // 单次轮询最多领取的信号数
	SweepIntervalSeconds int `yaml:"sweep-interval-seconds"`  // 过期清扫周期，0表示取 expiry/2
}

func (s SignalConfig) Expiry() time.Duration {
	if s.ExpirySeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.ExpirySeconds) * time.Second
}

func (s SignalConfig) ClaimLimit() int {
	if s.MaxPendingPerAccount <= 0 {
		return 50
	}
	return s.MaxPendingPerAccount
}

func (s SignalConfig) SweepInterval() time.Duration {
	if s.SweepIntervalSeconds > 0 {
		return time.Duration(s.SweepIntervalSeconds) * time.Second
	}
	half := s.Expiry() / 2
	if half < 5*time.Second {
		return 5 * time.Second
	}
	return half
}

// LotLimit 品种级别的手数上下限，可通过配置扩展，无需改代码
type LotLimit struct {
	MinLot float64 `yaml:"min-lot"`
	MaxLot float64 `yaml:"max-lot"`
}

type RateLimitConfig struct {
	WebhookPerMinute int `yaml:"webhook-per-minute"`
	PollPerMinute    int `yaml:"poll-per-minute"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot-token"`
	ChatID   int64  `yaml:"chat-id"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Db           `yaml:"database"`
	Log          LogConfig           `yaml:"log"`
	Jwt          JwtConfig           `yaml:"jwt"`
	Signal       SignalConfig        `yaml:"signal"`
	RateLimit    RateLimitConfig     `yaml:"rate-limit"`
	Telegram     TelegramConfig      `yaml:"telegram"`
	SymbolLimits map[string]LotLimit `yaml:"symbol-limits"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	// 环境变量优先，便于容器部署时注入敏感信息
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		AppConfig.Db.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		AppConfig.Jwt.Secret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		AppConfig.Telegram.BotToken = v
	}
	return nil
}
