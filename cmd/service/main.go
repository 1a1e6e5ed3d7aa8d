package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/config"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/database"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/jobs"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/logger"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/producer"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/repository"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/router"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	// Event bus is optional; without brokers publishing is disabled
	var events service.EventBus
	if len(cfg.KafkaBrokers) > 0 {
		orderProducer := producer.NewOrderProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer orderProducer.Close()
		events = orderProducer
	}

	svc := service.NewCRMService(repos, events, log)

	r := router.Router(svc, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := jobs.NewScheduler(
		jobs.NewHeartbeat(cfg.APIBaseURL, jobs.NewLogSink(cfg.HeartbeatLogPath), log),
		jobs.NewStockReconciler(cfg.APIBaseURL, svc, jobs.NewLogSink(cfg.LowStockLogPath), log),
		jobs.NewOrderReminders(svc, jobs.NewLogSink(cfg.RemindersLogPath), log),
		log,
	)
	sched.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting CRM HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down CRM server...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("CRM server stopped gracefully")
}
