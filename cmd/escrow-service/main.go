package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/app/background"
	"github.com/Zoker94/escrow-room-service/internal/config"
	httpdelivery "github.com/Zoker94/escrow-room-service/internal/delivery/http"
	"github.com/Zoker94/escrow-room-service/internal/delivery/http/handlers"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/logger"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/migrate"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/repository"
	"github.com/Zoker94/escrow-room-service/internal/usecase/account"
	"github.com/Zoker94/escrow-room-service/internal/usecase/dispute"
	"github.com/Zoker94/escrow-room-service/internal/usecase/fees"
	"github.com/Zoker94/escrow-room-service/internal/usecase/funds"
	"github.com/Zoker94/escrow-room-service/internal/usecase/reconciliation"
	"github.com/Zoker94/escrow-room-service/internal/usecase/room"
	"github.com/Zoker94/escrow-room-service/internal/usecase/transaction"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()

	slogger := logger.New(cfg.LogConfig, "escrow-room-service", cfg.Env)

	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.EscrowDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	publisher := kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)

	txRepo := repository.NewDefaultTransactionRepository(db)
	accountRepo := repository.NewDefaultAccountRepository(db)
	fundsRepo := repository.NewDefaultFundsRepository(db)
	auditRepo := repository.NewDefaultAuditRepository(db)

	escrowMetrics := metrics.NewEscrowMetrics()
	calc := fees.NewCalculator(cfg.Platform.MinAmount)

	roomUc := room.NewDefaultRoomUsecase(txRepo, accountRepo, auditRepo, calc, cfg.Platform, escrowMetrics, slogger)
	txUc := transaction.NewDefaultTransactionUsecase(txRepo, accountRepo, auditRepo, publisher, cfg.Platform, cfg.Notifier.WebhookURL, escrowMetrics, slogger)
	disputeUc := dispute.NewDefaultDisputeUsecase(txRepo, accountRepo, auditRepo, publisher, escrowMetrics, slogger)
	fundsUc := funds.NewDefaultFundsUsecase(fundsRepo, accountRepo, auditRepo, publisher, cfg.Platform, slogger)
	accountUc := account.NewDefaultAccountUsecase(accountRepo, auditRepo, publisher, slogger)
	engine := reconciliation.NewEngine(accountRepo, txRepo, fundsRepo, auditRepo, publisher, cfg.Reconciliation, escrowMetrics, slogger)

	router := httpdelivery.NewRouter(&httpdelivery.Handlers{
		Room:           handlers.NewRoomHandler(roomUc),
		Transaction:    handlers.NewTransactionHandler(txUc, disputeUc),
		Funds:          handlers.NewFundsHandler(fundsUc),
		Account:        handlers.NewAccountHandler(accountUc),
		Reconciliation: handlers.NewReconciliationHandler(engine),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tasks := background.NewBackgroundTasks(txUc, engine, cfg.Reconciliation, slogger)
	tasks.StartAll(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slogger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slogger.Error("graceful shutdown failed", "error", err.Error())
	}
}
