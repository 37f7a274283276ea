package room

import (
	"log/slog"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/Zoker94/escrow-room-service/internal/usecase/fees"
)

type RoomUsecase interface {
	CreateRoom(input *CreateRoomInput) (*domain.Transaction, error)
	GetRoomByID(roomID string) (*domain.Transaction, error)
	JoinRoom(input *JoinRoomInput) (*domain.Transaction, error)
}

type DefaultRoomUsecase struct {
	txRepo      domain.TransactionRepository
	accountRepo domain.AccountRepository
	auditRepo   domain.AuditRepository
	calc        *fees.Calculator
	platform    config.Platform
	metrics     *metrics.EscrowMetrics
	logger      *slog.Logger
}

func NewDefaultRoomUsecase(
	txRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	auditRepo domain.AuditRepository,
	calc *fees.Calculator,
	platform config.Platform,
	escrowMetrics *metrics.EscrowMetrics,
	logger *slog.Logger,
) *DefaultRoomUsecase {
	return &DefaultRoomUsecase{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		calc:        calc,
		platform:    platform,
		metrics:     escrowMetrics,
		logger:      logger,
	}
}
