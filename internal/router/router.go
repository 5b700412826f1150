package router

import (
	"signalbridge/conf"
	"signalbridge/internal/dao"
	"signalbridge/internal/handler/account"
	"signalbridge/internal/handler/ea"
	"signalbridge/internal/handler/ping"
	"signalbridge/internal/handler/signal"
	"signalbridge/internal/handler/user"
	"signalbridge/internal/handler/webhook"
	"signalbridge/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	webhookHandler *webhook.Handler
	eaHandler      *ea.Handler
	signalHandler  *signal.Handler
	accountHandler *account.Handler
	userHandler    *user.Handler
	accounts       dao.AccountDao
}

func NewApiRouter(
	wh *webhook.Handler,
	eh *ea.Handler,
	sh *signal.Handler,
	ah *account.Handler,
	uh *user.Handler,
	accounts dao.AccountDao,
) *ApiRouter {
	return &ApiRouter{
		webhookHandler: wh,
		eaHandler:      eh,
		signalHandler:  sh,
		accountHandler: ah,
		userHandler:    uh,
		accounts:       accounts,
	}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	g.GET("/ping", ping.Ping())

	base := g.Group("/api/v1")

	// TradingView入口，secret在body里，限流按来源IP
	wh := base.Group("/webhook", middleware.RateLimitByIP(conf.AppConfig.RateLimit.WebhookPerMinute))
	{
		wh.POST("/tradingview", api.webhookHandler.HandleTradingView())
	}

	// EA轮询面，api key鉴权，裸结构响应
	e := base.Group("/ea",
		middleware.RateLimitByApiKey(conf.AppConfig.RateLimit.PollPerMinute),
		middleware.AuthApiKey(api.accounts))
	{
		e.GET("/signals", api.eaHandler.GetPendingSignals())
		e.POST("/signals/:id/result", api.eaHandler.ReportResult())
	}

	// 管理面，JWT鉴权，ApiResponse信封
	sg := base.Group("/signals", middleware.AuthToken())
	{
		sg.GET("", api.signalHandler.SignalGetList())
		sg.GET("/export", api.signalHandler.SignalExportCSV())
		sg.GET("/:id", api.signalHandler.SignalGetDetail())
		sg.DELETE("/:id", api.signalHandler.SignalCancel())
	}

	ac := base.Group("/accounts", middleware.AuthToken())
	{
		ac.POST("", api.accountHandler.AccountCreate())
		ac.GET("", api.accountHandler.AccountGetList())
		ac.GET("/:id", api.accountHandler.AccountGetDetail())
		ac.PUT("/:id", api.accountHandler.AccountUpdate())
		ac.DELETE("/:id", api.accountHandler.AccountDelete())
		ac.POST("/:id/regenerate-key", api.accountHandler.AccountRegenerateKey())
		ac.GET("/:id/mappings", api.accountHandler.MappingGetList())
		ac.POST("/:id/mappings", api.accountHandler.MappingCreate())
		ac.DELETE("/:id/mappings/:mapping_id", api.accountHandler.MappingDelete())
	}

	auth := base.Group("/auth")
	{
		auth.POST("/register", api.userHandler.Register())
		auth.POST("/login", api.userHandler.Login())
	}

	u := base.Group("/user", middleware.AuthToken())
	{
		u.GET("/info", api.userHandler.Info())
		u.POST("/regenerate-webhook-secret", api.userHandler.RegenerateWebhookSecret())
	}
}
