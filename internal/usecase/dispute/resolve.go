package dispute

import (
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
)

// Resolve closes a dispute in the seller's favour: DISPUTED -> COMPLETED,
// crediting seller_receives once.
func (uc *DefaultDisputeUsecase) Resolve(txID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: dispute resolution is staff-only", domain.ErrUnauthorized)
	}

	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.Status != domain.StatusDisputed {
		return fmt.Errorf("%w: cannot resolve from %s", domain.ErrConflict, tx.Status)
	}

	// The conditional transition is the payout lock.
	if err := uc.txRepo.UpdateTransactionStatus(txID, domain.StatusDisputed, domain.StatusCompleted); err != nil {
		return err
	}

	if err := uc.accountRepo.CreditBalance(tx.SellerID(), tx.SellerReceives); err != nil {
		uc.logger.Error("failed to credit seller on resolve",
			"transaction_id", txID, "seller_id", tx.SellerID(), "error", err.Error())
		return err
	}
	if err := uc.txRepo.SetCompletedAt(txID, time.Now()); err != nil {
		uc.logger.Error("failed to stamp completion time", "transaction_id", txID, "error", err.Error())
	}

	uc.recordResolution(tx, staff, tx.SellerID(), tx.SellerReceives,
		domain.ActionDisputeResolve, domain.StatusCompleted, note)
	uc.metrics.DisputesResolvedTotal.WithLabelValues("resolved").Inc()

	go func(event kafka.DisputeClosedEvent) {
		if err := uc.publisher.PublishEvent(event.TransactionID, event); err != nil {
			uc.logger.Error("failed to publish dispute event", "stage", "resolving", "error", err.Error())
		}
	}(kafka.DisputeClosedEvent{
		TransactionID: tx.ID,
		RoomID:        tx.RoomID,
		Resolution:    "resolved",
		PerformedBy:   staff.UserID,
		Amount:        tx.SellerReceives,
	})

	return nil
}
