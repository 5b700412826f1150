package main

import (
	"log"
	"os"

	api "signalbridge/cmd/signalbridge"
	"signalbridge/conf"
	"signalbridge/internal/middleware"
	"signalbridge/internal/model/entity"
	"signalbridge/pkg/db"
	"signalbridge/pkg/logger"

	"github.com/joho/godotenv"
)

// 启动服务（TradingView webhook接入 + EA轮询）

/*
测试

SECRET="<webhook secret>"
curl -X POST http://localhost:12180/api/v1/webhook/tradingview \
  -H "Content-Type: application/json" \
  -d "{\"secret\":\"$SECRET\",\"symbol\":\"EURUSD\",\"action\":\"buy\",\"quantity\":0.1,\"take_profit\":1.105,\"stop_loss\":1.095}"

API_KEY="<account api key>"
curl http://localhost:12180/api/v1/ea/signals -H "X-API-Key: $API_KEY"
*/

func main() {
	// .env不存在时忽略，容器环境直接注入环境变量
	_ = godotenv.Load()

	// 加载配置文件
	err := conf.LoadConfig("conf/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)
	defer logger.Sync()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	if dbUser == "" || dbHost == "" {
		dbUser = appCfg.Db.Username
		dbPass = appCfg.Db.Password
		dbHost = appCfg.Db.Host
		dbPort = appCfg.Db.Port
		dbName = appCfg.Db.DbName
	}

	// 初始化数据库
	datasource := db.Init(db.Config{
		User:      dbUser,
		Password:  dbPass,
		Host:      dbHost,
		Port:      dbPort,
		DBName:    dbName,
		ParseTime: true,
	})

	if err := datasource.AutoMigrate(
		&entity.User{},
		&entity.MTAccount{},
		&entity.SymbolMapping{},
		&entity.Signal{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	srvRouter, sweeper := api.InitRouter(datasource)
	sweeper.Start()

	// 创建并启动服务
	srv := api.NewServer(&appCfg)
	srv.RegisterOnShutdown(func() {
		sweeper.Stop()
		if datasource != nil {
			// 关闭主库链接
			if m, err := datasource.DB(); err == nil {
				_ = m.Close()
			}
		}
	})

	srv.Run(middleware.NewMiddleware(), srvRouter)
}
