package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"paysvc/internal/app/config"
	"paysvc/internal/app/domains/modules/mdnotify"
	"paysvc/internal/app/domains/modules/mdorder"
	"paysvc/internal/app/domains/modules/mdresult"
	"paysvc/internal/app/domains/repo/rpcallback"
	"paysvc/internal/app/domains/repo/rporder"
	"paysvc/internal/app/domains/services/svcallback"
	"paysvc/internal/app/domains/services/svcheckout"
	"paysvc/internal/app/domains/services/svorder"
	"paysvc/internal/app/infra/mq/lmstfy"
	"paysvc/internal/app/infra/persistence/mysql"
	"paysvc/internal/app/infra/persistence/redis"
	"paysvc/internal/app/pkg/euplatesc"
	"paysvc/internal/app/pkg/logger"
	"paysvc/internal/app/server/handlers/order"
	"paysvc/internal/app/server/handlers/payment"
	"paysvc/internal/app/server/routers"
	"paysvc/internal/app/worker/sweeper"
)

// App 应用依赖集合
type App struct {
	Engine  *gin.Engine
	Sweeper *sweeper.Sweeper
	Logger  logger.Logger
}

// InitializeApp 按依赖顺序组装应用，返回的 cleanup 负责释放连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 存储
	db, err := mysql.Open(cfg.MySQL.DSN, mysql.DefaultOptions())
	if err != nil {
		return nil, nil, err
	}
	if err := mysql.Migrate(db); err != nil {
		_ = mysql.Close(db)
		return nil, nil, fmt.Errorf("migrate failed: %w", err)
	}

	redisClient, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = mysql.Close(db)
		return nil, nil, fmt.Errorf("connect redis failed: %w", err)
	}

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("Close redis failed", "error", err)
		}
		if err := mysql.Close(db); err != nil {
			log.Warn("Close mysql failed", "error", err)
		}
		_ = log.Sync()
	}

	// Repository / Module
	orderRepo := rporder.NewOrderRepository(db)
	callbackRepo := rpcallback.NewCallbackLogRepository(db)
	orderModule := mdorder.NewOrderModule(orderRepo)
	resultModule := mdresult.NewResultModule(redisClient)

	queue := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token, cfg.Lmstfy.PublishTimeout)
	notifier := mdnotify.NewQueueNotifier(queue, cfg.Lmstfy.NotifyQueue, cfg.Lmstfy.PublishTimeout, log)

	initiator := euplatesc.NewInitiator(euplatesc.MerchantConfig{
		MerchantID:   cfg.EuPlatesc.MerchantID,
		SecretKeyHex: cfg.EuPlatesc.SecretKey,
		ProcessURL:   cfg.EuPlatesc.ProcessURL,
	}, nil)

	// Service
	checkoutService := svcheckout.NewCheckoutService(
		orderModule, notifier, initiator,
		cfg.PendingOrder.TTL, cfg.EuPlatesc.Currency, log,
	)
	callbackService := svcallback.NewCallbackService(
		orderModule, callbackRepo, notifier, resultModule,
		cfg.EuPlatesc.SecretKey, log,
	)
	orderService := svorder.NewOrderService(orderModule, resultModule, log)

	// Handler / Router
	orderHandler := order.NewOrderHandler(orderService, checkoutService)
	paymentHandler := payment.NewPaymentHandler(checkoutService, callbackService, orderService, payment.Storefront{
		SuccessURL: cfg.Storefront.SuccessURL,
		FailureURL: cfg.Storefront.FailureURL,
	})
	engine := routers.SetupRoutes(orderHandler, paymentHandler, redisClient, log)

	return &App{
		Engine:  engine,
		Sweeper: sweeper.New(orderModule, cfg.PendingOrder.SweepInterval, log),
		Logger:  log,
	}, cleanup, nil
}
