package api

import (
	"signalbridge/conf"
	"signalbridge/internal/dao/query"
	"signalbridge/internal/handler/account"
	"signalbridge/internal/handler/ea"
	"signalbridge/internal/handler/signal"
	"signalbridge/internal/handler/user"
	"signalbridge/internal/handler/webhook"
	"signalbridge/internal/router"
	"signalbridge/internal/service"
	"signalbridge/internal/trade"

	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB) (Router, *service.ExpirySweeper) {
	appCfg := conf.AppConfig

	signalDao := query.NewSignalDao(db)
	accountDao := query.NewAccountDao(db)
	mappingDao := query.NewMappingDao(db)
	userDao := query.NewUserDao(db)

	vd := trade.NewValidator(appCfg.SymbolLimits)
	mapper := service.NewSymbolMapper(mappingDao)
	notifier := service.NewNotifier(appCfg.Telegram)

	processor := service.NewSignalProcessor(signalDao, accountDao, mapper, vd, notifier, appCfg.Signal)
	accountService := service.NewAccountService(accountDao, mappingDao)
	userService := service.NewUserService(userDao)

	sweeper := service.NewExpirySweeper(processor, appCfg.Signal)

	apiRouter := router.NewApiRouter(
		webhook.NewHandler(userService, processor, vd),
		ea.NewHandler(processor),
		signal.NewHandler(processor),
		account.NewHandler(accountService),
		user.NewHandler(userService),
		accountDao,
	)
	return apiRouter, sweeper
}
