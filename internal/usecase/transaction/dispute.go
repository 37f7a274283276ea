package transaction

import (
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
)

// OpenDispute moves an active deal into DISPUTED. Only the buyer or seller
// may raise one, a reason is mandatory, and whether a not-yet-paid deal can
// be disputed is a platform knob.
func (uc *DefaultTransactionUsecase) OpenDispute(txID string, caller domain.Identity, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: dispute reason is required", domain.ErrValidation)
	}

	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if caller.UserID != tx.BuyerID() && caller.UserID != tx.SellerID() {
		return fmt.Errorf("%w: only the buyer or seller can raise a dispute", domain.ErrUnauthorized)
	}
	if tx.Status == domain.StatusDisputed {
		return nil
	}

	switch tx.Status {
	case domain.StatusDeposited, domain.StatusShipping:
	case domain.StatusPending:
		if !uc.platform.AllowDisputeBeforePayment {
			return fmt.Errorf("%w: disputes require a completed payment first", domain.ErrConflict)
		}
	default:
		return fmt.Errorf("%w: cannot dispute from %s", domain.ErrConflict, tx.Status)
	}

	if err := uc.txRepo.UpdateTransactionStatus(txID, tx.Status, domain.StatusDisputed); err != nil {
		return err
	}
	if err := uc.txRepo.SetDispute(txID, reason, time.Now()); err != nil {
		uc.logger.Error("failed to stamp dispute details", "transaction_id", txID, "error", err.Error())
	}

	raisedBy := "buyer"
	if caller.UserID == tx.SellerID() {
		raisedBy = "seller"
	}
	uc.metrics.DisputesOpenedTotal.WithLabelValues(raisedBy).Inc()
	uc.recordTransition(tx, tx.Status, domain.StatusDisputed)

	go func(event kafka.DisputeOpenedEvent) {
		if err := uc.publisher.PublishEvent(event.TransactionID, event); err != nil {
			uc.logger.Error("failed to publish dispute event", "stage", "opening", "error", err.Error())
		}
	}(kafka.DisputeOpenedEvent{
		TransactionID: tx.ID,
		RoomID:        tx.RoomID,
		RaisedBy:      caller.UserID,
		Amount:        tx.Amount,
		Reason:        reason,
		Status:        string(domain.StatusDisputed),
	})

	return nil
}
