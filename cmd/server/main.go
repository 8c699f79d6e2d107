package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/api"
	"github.com/beautyconnect/pay_go_server/internal/api/handler"
	"github.com/beautyconnect/pay_go_server/internal/database"
	"github.com/beautyconnect/pay_go_server/internal/pkg/cron"
	"github.com/beautyconnect/pay_go_server/internal/pkg/lock"
	"github.com/beautyconnect/pay_go_server/internal/pkg/logger"
	"github.com/beautyconnect/pay_go_server/internal/pkg/payment"
	"github.com/beautyconnect/pay_go_server/internal/pkg/pubsub"
	"github.com/beautyconnect/pay_go_server/internal/repository"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

var configPath = flag.String("config", "config.yaml", "Path to config file")

func main() {
	flag.Parse()

	// .env 可选，本地开发用
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New("").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.Mode)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// 初始化数据库
	db, err := database.NewDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)
	log.Info("database connected", "driver", cfg.Database.Driver)

	// 初始化 Redis（可选）
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	var locker cron.Locker
	if rdb != nil {
		defer rdb.Close()
		locker = lock.NewRedisLock(rdb, cfg.Cron.LockTTL)
		log.Info("redis connected", "addr", cfg.Redis.Addr())
	}
	publisher := pubsub.NewPublisher(rdb)

	// 支付网关
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, nil)

	// 初始化 Repository
	subRepo := repository.NewSubscriptionRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	// 初始化 Service
	subscriptionService := service.NewSubscriptionService(subRepo, gateway, publisher, cfg, log)
	vendorService := service.NewVendorService(accountRepo, gateway, publisher, cfg, log)
	merchantService := service.NewMerchantService(gateway)
	paymentService := service.NewPaymentService(gateway, publisher, cfg, log)

	// 初始化 Router
	router := api.NewRouter(
		handler.NewSubscriptionHandler(subscriptionService),
		handler.NewVendorHandler(vendorService),
		handler.NewMerchantHandler(merchantService),
		handler.NewPaymentHandler(paymentService),
		cfg,
		log,
	)

	// 定时过期扫描
	cronService := cron.NewService(subscriptionService, locker, cfg.Cron.ExpireSchedule, cfg.Cron.LockTTL, log)
	if err := cronService.Start(); err != nil {
		log.Error("failed to start cron", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	cronService.Stop()
}
