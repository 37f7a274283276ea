package dispute

import (
	"fmt"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
	"github.com/Zoker94/escrow-room-service/internal/usecase/fees"
)

// Refund closes a dispute in the buyer's favour: DISPUTED -> REFUNDED,
// returning the amount plus whatever fee share the buyer bore.
func (uc *DefaultDisputeUsecase) Refund(txID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: dispute resolution is staff-only", domain.ErrUnauthorized)
	}

	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.Status != domain.StatusDisputed {
		return fmt.Errorf("%w: cannot refund from %s", domain.ErrConflict, tx.Status)
	}

	if err := uc.txRepo.UpdateTransactionStatus(txID, domain.StatusDisputed, domain.StatusRefunded); err != nil {
		return err
	}

	refund := tx.Amount + fees.BuyerShare(tx.FeeAmount, tx.FeeBearer)
	if err := uc.accountRepo.CreditBalance(tx.BuyerID(), refund); err != nil {
		uc.logger.Error("failed to credit buyer on refund",
			"transaction_id", txID, "buyer_id", tx.BuyerID(), "error", err.Error())
		return err
	}

	uc.recordResolution(tx, staff, tx.BuyerID(), refund,
		domain.ActionDisputeRefund, domain.StatusRefunded, note)
	uc.metrics.DisputesResolvedTotal.WithLabelValues("refunded").Inc()

	go func(event kafka.DisputeClosedEvent) {
		if err := uc.publisher.PublishEvent(event.TransactionID, event); err != nil {
			uc.logger.Error("failed to publish dispute event", "stage", "refunding", "error", err.Error())
		}
	}(kafka.DisputeClosedEvent{
		TransactionID: tx.ID,
		RoomID:        tx.RoomID,
		Resolution:    "refunded",
		PerformedBy:   staff.UserID,
		Amount:        refund,
	})

	return nil
}
