package dispute

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

type EventPublisher interface {
	PublishEvent(key string, event interface{}) error
}

// DisputeUsecase holds the two privileged exits from DISPUTED. Both are
// single-use: the conditional status update rejects a second attempt.
type DisputeUsecase interface {
	Resolve(txID string, staff domain.Identity, note string) error
	Refund(txID string, staff domain.Identity, note string) error
}

type DefaultDisputeUsecase struct {
	txRepo      domain.TransactionRepository
	accountRepo domain.AccountRepository
	auditRepo   domain.AuditRepository
	publisher   EventPublisher
	metrics     *metrics.EscrowMetrics
	logger      *slog.Logger
}

func NewDefaultDisputeUsecase(
	txRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	auditRepo domain.AuditRepository,
	publisher EventPublisher,
	escrowMetrics *metrics.EscrowMetrics,
	logger *slog.Logger,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		metrics:     escrowMetrics,
		logger:      logger,
	}
}

func (uc *DefaultDisputeUsecase) recordResolution(
	tx *domain.Transaction,
	staff domain.Identity,
	beneficiaryID string,
	payout float64,
	actionType string,
	newStatus domain.TransactionStatus,
	note string,
) {
	entry := &domain.AdminActionLog{
		ID:           uuid.NewString(),
		ActorID:      staff.UserID,
		TargetUserID: beneficiaryID,
		ActionType:   actionType,
		BalanceDelta: payout,
		Source:       domain.SourceTransaction,
		Details: fmt.Sprintf(`{"transaction_id":%q,"old_status":%q,"new_status":%q}`,
			tx.ID, domain.StatusDisputed, newStatus),
		Note:      note,
		CreatedAt: time.Now(),
	}
	if err := uc.auditRepo.CreateActionLog(entry); err != nil {
		uc.logger.Error("failed to record dispute resolution", "transaction_id", tx.ID, "error", err.Error())
	}
}
