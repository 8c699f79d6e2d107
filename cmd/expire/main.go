package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/beautyconnect/pay_go_server/config"
	"github.com/beautyconnect/pay_go_server/internal/database"
	"github.com/beautyconnect/pay_go_server/internal/pkg/logger"
	"github.com/beautyconnect/pay_go_server/internal/pkg/pubsub"
	"github.com/beautyconnect/pay_go_server/internal/repository"
	"github.com/beautyconnect/pay_go_server/internal/service"
)

var (
	dryRun     = flag.Bool("dry-run", false, "Only report subscriptions that would expire")
	configPath = flag.String("config", "", "Path to config file (default $CONFIG_PATH or config.yaml)")
	timeout    = flag.Duration("timeout", time.Minute, "Timeout for the sweep")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	// 加载配置
	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.New("").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.Mode)

	// 只需要数据库，不校验支付密钥
	db, err := database.NewDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, events disabled", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	svc := service.NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		nil,
		pubsub.NewPublisher(rdb),
		cfg,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *dryRun {
		n, err := svc.CountDue(ctx)
		if err != nil {
			log.Error("failed to count due subscriptions", "error", err)
			os.Exit(1)
		}
		log.Info("dry run", "would_expire", n)
		return
	}

	n, err := svc.ExpireSweep(ctx)
	if err != nil {
		log.Error("expire sweep failed", "error", err)
		os.Exit(1)
	}
	log.Info("expire sweep completed", "expired", n)
}
