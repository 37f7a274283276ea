package funds

import (
	"log/slog"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type EventPublisher interface {
	PublishEvent(key string, event interface{}) error
}

type FundsUsecase interface {
	CreateDeposit(userID string, amount float64) (*domain.Deposit, error)
	ConfirmDeposit(depositID string, staff domain.Identity, note string) error
	RejectDeposit(depositID string, staff domain.Identity, note string) error

	CreateWithdrawal(userID string, amount float64) (*domain.Withdrawal, error)
	ConfirmWithdrawal(withdrawalID string, staff domain.Identity, note string) error
	RejectWithdrawal(withdrawalID string, staff domain.Identity, note string) error
}

type DefaultFundsUsecase struct {
	fundsRepo   domain.FundsRepository
	accountRepo domain.AccountRepository
	auditRepo   domain.AuditRepository
	publisher   EventPublisher
	platform    config.Platform
	logger      *slog.Logger
}

func NewDefaultFundsUsecase(
	fundsRepo domain.FundsRepository,
	accountRepo domain.AccountRepository,
	auditRepo domain.AuditRepository,
	publisher EventPublisher,
	platform config.Platform,
	logger *slog.Logger,
) *DefaultFundsUsecase {
	return &DefaultFundsUsecase{
		fundsRepo:   fundsRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		platform:    platform,
		logger:      logger,
	}
}
