package transaction

import (
	"log/slog"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
)

// EventPublisher is the outbound notification hook; publishing is always
// best-effort.
type EventPublisher interface {
	PublishEvent(key string, event interface{}) error
}

type TransactionUsecase interface {
	Deposit(txID string, caller domain.Identity) error
	MarkShipped(txID string, caller domain.Identity) error
	Confirm(txID string, caller domain.Identity) error
	Cancel(txID string, caller domain.Identity) error
	OpenDispute(txID string, caller domain.Identity, reason string) error
	CancelExpired() error
	GetTransactionByID(txID string) (*domain.Transaction, error)
}

type DefaultTransactionUsecase struct {
	txRepo      domain.TransactionRepository
	accountRepo domain.AccountRepository
	auditRepo   domain.AuditRepository
	publisher   EventPublisher
	platform    config.Platform
	webhookURL  string
	metrics     *metrics.EscrowMetrics
	logger      *slog.Logger
}

func NewDefaultTransactionUsecase(
	txRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	auditRepo domain.AuditRepository,
	publisher EventPublisher,
	platform config.Platform,
	webhookURL string,
	escrowMetrics *metrics.EscrowMetrics,
	logger *slog.Logger,
) *DefaultTransactionUsecase {
	return &DefaultTransactionUsecase{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		platform:    platform,
		webhookURL:  webhookURL,
		metrics:     escrowMetrics,
		logger:      logger,
	}
}

func (uc *DefaultTransactionUsecase) GetTransactionByID(txID string) (*domain.Transaction, error) {
	return uc.txRepo.GetTransactionByID(txID)
}
