package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sofortpay/internal/config"
	"sofortpay/internal/database"
	"sofortpay/internal/repo"
	"sofortpay/internal/server"
	"sofortpay/internal/service"
	"sofortpay/internal/sofort"
	"sofortpay/internal/worker"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db := database.NewPostgres()
	defer db.Close()

	orderRepo := repo.NewOrderRepo(db)
	paymentRepo := repo.NewPaymentRepo(db)
	lifecycle := service.NewLifecycle(paymentRepo)
	transport := sofort.NewHTTPTransport(30*time.Second, logger.Named("transport"))

	svc := service.NewPaymentService(db, orderRepo, paymentRepo, lifecycle, transport, cfg, logger.Named("service"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := worker.NewReconciliationWorker(paymentRepo, svc, cfg.SweepInterval, cfg.SweepAfter, logger.Named("worker"))
	go sweeper.Run(ctx)

	srv := server.New(svc, logger.Named("http"))
	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Router().Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
