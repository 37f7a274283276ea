package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/usecase/reconciliation"
	"github.com/Zoker94/escrow-room-service/internal/usecase/transaction"
)

type BackgroundTasks struct {
	TransactionUsecase transaction.TransactionUsecase
	Reconciliation     *reconciliation.Engine
	Cfg                config.Reconciliation
	Logger             *slog.Logger
}

func NewBackgroundTasks(
	txUC transaction.TransactionUsecase,
	engine *reconciliation.Engine,
	cfg config.Reconciliation,
	logger *slog.Logger,
) *BackgroundTasks {
	return &BackgroundTasks{
		TransactionUsecase: txUC,
		Reconciliation:     engine,
		Cfg:                cfg,
		Logger:             logger,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startExpiredRoomCancel(ctx)
	go bt.startReconciliationScan(ctx)
}

func (bt *BackgroundTasks) startExpiredRoomCancel(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.TransactionUsecase.CancelExpired(); err != nil {
				bt.Logger.Error("expired room auto-cancel failed", "error", err.Error())
			}
		}
	}
}

func (bt *BackgroundTasks) startReconciliationScan(ctx context.Context) {
	ticker := time.NewTicker(bt.Cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := bt.Reconciliation.Scan(ctx)
			if err != nil {
				bt.Logger.Error("reconciliation scan failed", "error", err.Error())
				continue
			}
			bt.Logger.Info("reconciliation scan finished",
				"scanned", report.Scanned,
				"anomalies", report.AnomaliesFound,
				"frozen", report.AccountsFrozen,
			)
		}
	}
}
