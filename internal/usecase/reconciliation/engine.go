package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

const engineActorID = "reconciliation-engine"

type EventPublisher interface {
	PublishEvent(key string, event interface{}) error
}

// Engine recomputes each account's expected balance from its full financial
// event history and freezes accounts whose stored balance cannot be
// explained. It is a consistency auditor: it flags and freezes, it never
// rewrites a balance.
type Engine struct {
	accountRepo domain.AccountRepository
	txRepo      domain.TransactionRepository
	fundsRepo   domain.FundsRepository
	auditRepo   domain.AuditRepository
	publisher   EventPublisher
	cfg         config.Reconciliation
	metrics     *metrics.EscrowMetrics
	logger      *slog.Logger
}

func NewEngine(
	accountRepo domain.AccountRepository,
	txRepo domain.TransactionRepository,
	fundsRepo domain.FundsRepository,
	auditRepo domain.AuditRepository,
	publisher EventPublisher,
	cfg config.Reconciliation,
	escrowMetrics *metrics.EscrowMetrics,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		fundsRepo:   fundsRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		cfg:         cfg,
		metrics:     escrowMetrics,
		logger:      logger,
	}
}

// Scan walks every account. A failure on one account is logged and the scan
// moves on; the returned report is always the best-effort summary. The scan
// may observe a transient snapshot, so it is rerun periodically rather than
// trusted as instantaneous truth.
func (e *Engine) Scan(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		ScannedAt: started,
		Anomalies: make([]*Anomaly, 0),
	}

	pageSize := e.cfg.ScanPageSize
	if pageSize <= 0 {
		pageSize = 500
	}

	for offset := 0; ; offset += pageSize {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		accounts, err := e.accountRepo.ListAccounts(offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		if len(accounts) == 0 {
			break
		}

		for _, account := range accounts {
			report.Scanned++

			// Frozen accounts were already dealt with; rescanning them would
			// only repeat the same alert.
			if account.IsBalanceFrozen {
				continue
			}

			anomalies, err := e.checkAccount(account)
			if err != nil {
				e.logger.Error("reconciliation check failed",
					"user_id", account.UserID, "error", err.Error())
				continue
			}

			for _, anomaly := range anomalies {
				report.AnomaliesFound++
				report.Anomalies = append(report.Anomalies, anomaly)
				e.metrics.ReconciliationAnomaliesTotal.WithLabelValues(anomaly.Type, anomaly.Severity).Inc()
				e.recordAlert(anomaly)
			}

			if frozen := e.freezeIfRequired(account, anomalies); frozen {
				report.AccountsFrozen++
				e.metrics.ReconciliationFrozenTotal.Inc()
			}
		}

		if len(accounts) < pageSize {
			break
		}
	}

	e.metrics.ReconciliationScansTotal.Inc()
	e.metrics.ReconciliationScanDuration.Observe(time.Since(started).Seconds())
	e.logger.Info("reconciliation scan finished",
		"scanned", report.Scanned,
		"anomalies", report.AnomaliesFound,
		"frozen", report.AccountsFrozen,
		"duration", time.Since(started).String(),
	)

	return report, nil
}

// freezeIfRequired applies the auto-freeze action for the first freezing
// anomaly. A failure here is logged, never propagated: the scan continues.
func (e *Engine) freezeIfRequired(account *domain.Account, anomalies []*Anomaly) bool {
	for _, anomaly := range anomalies {
		if !autoFreeze[anomaly.Type] {
			continue
		}

		reason := fmt.Sprintf("%s: %s", anomaly.Type, anomaly.Description)
		if err := e.accountRepo.FreezeBalance(account.UserID, reason, time.Now()); err != nil {
			e.logger.Error("failed to freeze account",
				"user_id", account.UserID, "anomaly", anomaly.Type, "error", err.Error())
			return false
		}
		anomaly.Frozen = true

		e.recordFreeze(account.UserID, anomaly, reason)

		go func(event kafka.AccountFrozenEvent) {
			if err := e.publisher.PublishEvent(event.UserID, event); err != nil {
				e.logger.Error("failed to publish freeze event", "error", err.Error())
			}
		}(kafka.AccountFrozenEvent{
			UserID:   account.UserID,
			Reason:   reason,
			Severity: anomaly.Severity,
		})

		return true
	}
	return false
}

func (e *Engine) recordFreeze(userID string, anomaly *Anomaly, reason string) {
	entry := &domain.AdminActionLog{
		ID:           uuid.NewString(),
		ActorID:      engineActorID,
		TargetUserID: userID,
		ActionType:   domain.ActionBalanceFreeze,
		Source:       domain.SourceTransaction,
		Details: fmt.Sprintf(`{"anomaly":%q,"severity":%q,"expected":%.2f,"actual":%.2f,"difference":%.2f}`,
			anomaly.Type, anomaly.Severity, anomaly.Expected, anomaly.Actual, anomaly.Difference),
		Note:      reason,
		CreatedAt: time.Now(),
	}
	if err := e.auditRepo.CreateActionLog(entry); err != nil {
		e.logger.Error("failed to write freeze audit entry", "user_id", userID, "error", err.Error())
	}
}

func (e *Engine) recordAlert(anomaly *Anomaly) {
	alert := &domain.RiskAlert{
		ID:           uuid.NewString(),
		TargetUserID: anomaly.UserID,
		AlertType:    anomaly.Type,
		Severity:     anomaly.Severity,
		Description:  anomaly.Description,
		CreatedAt:    time.Now(),
	}
	if err := e.auditRepo.CreateRiskAlert(alert); err != nil {
		e.logger.Error("failed to write risk alert", "user_id", anomaly.UserID, "error", err.Error())
	}
}
