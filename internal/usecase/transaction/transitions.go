package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/notifier"
	"github.com/Zoker94/escrow-room-service/internal/usecase/fees"
)

// Deposit debits the buyer's payable in one guarded decrement, then moves
// PENDING -> DEPOSITED. The debit comes first so the deal can never leave
// PENDING unfunded; losing the status race afterwards refunds the debit.
func (uc *DefaultTransactionUsecase) Deposit(txID string, caller domain.Identity) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.BuyerID() != caller.UserID {
		return fmt.Errorf("%w: only the buyer can deposit", domain.ErrUnauthorized)
	}
	if tx.Status == domain.StatusDeposited {
		return nil
	}
	if tx.Status != domain.StatusPending {
		return fmt.Errorf("%w: cannot deposit from %s", domain.ErrConflict, tx.Status)
	}
	if tx.Amount <= 0 {
		return fmt.Errorf("%w: deal terms are not set yet", domain.ErrValidation)
	}

	payable := tx.Amount + fees.BuyerShare(tx.FeeAmount, tx.FeeBearer)
	if err := uc.accountRepo.DebitBalance(caller.UserID, payable); err != nil {
		return err
	}

	if err := uc.txRepo.UpdateTransactionStatus(txID, domain.StatusPending, domain.StatusDeposited); err != nil {
		// Lost the transition; the money goes back.
		if creditErr := uc.accountRepo.CreditBalance(caller.UserID, payable); creditErr != nil {
			uc.logger.Error("failed to refund deposit after lost transition",
				"transaction_id", txID, "buyer_id", caller.UserID, "error", creditErr.Error())
		}
		if errors.Is(err, domain.ErrConflict) {
			current, getErr := uc.txRepo.GetTransactionByID(txID)
			if getErr == nil && current.Status == domain.StatusDeposited {
				return nil
			}
		}
		return err
	}

	uc.recordTransition(tx, domain.StatusPending, domain.StatusDeposited)
	return nil
}

// MarkShipped moves DEPOSITED -> SHIPPING. Optional: some flows confirm
// straight from DEPOSITED.
func (uc *DefaultTransactionUsecase) MarkShipped(txID string, caller domain.Identity) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.SellerID() != caller.UserID {
		return fmt.Errorf("%w: only the seller can mark goods shipped", domain.ErrUnauthorized)
	}
	if tx.Status == domain.StatusShipping {
		return nil
	}
	if tx.Status != domain.StatusDeposited {
		return fmt.Errorf("%w: cannot ship from %s", domain.ErrConflict, tx.Status)
	}

	if err := uc.txRepo.UpdateTransactionStatus(txID, domain.StatusDeposited, domain.StatusShipping); err != nil {
		return err
	}

	uc.recordTransition(tx, domain.StatusDeposited, domain.StatusShipping)
	return nil
}

// Confirm records the caller's confirmation; the confirmation that makes
// both sides true completes the deal and credits the seller. A staff caller
// overrides both confirmations at once.
func (uc *DefaultTransactionUsecase) Confirm(txID string, caller domain.Identity) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.Status == domain.StatusCompleted {
		return nil
	}
	if tx.Status != domain.StatusDeposited && tx.Status != domain.StatusShipping {
		return fmt.Errorf("%w: cannot confirm from %s", domain.ErrConflict, tx.Status)
	}

	if caller.Capability.IsStaff() {
		return uc.complete(tx)
	}

	switch caller.UserID {
	case tx.BuyerID():
		if !tx.BuyerConfirmed {
			if err := uc.txRepo.SetConfirmation(txID, domain.RoleBuyer); err != nil {
				return err
			}
		}
	case tx.SellerID():
		if !tx.SellerConfirmed {
			if err := uc.txRepo.SetConfirmation(txID, domain.RoleSeller); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: caller is not a party of this deal", domain.ErrUnauthorized)
	}

	tx, err = uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.BuyerConfirmed && tx.SellerConfirmed {
		return uc.complete(tx)
	}
	return nil
}

// complete wins the terminal transition, then pays the seller exactly once.
func (uc *DefaultTransactionUsecase) complete(tx *domain.Transaction) error {
	if err := uc.txRepo.UpdateTransactionStatus(tx.ID, tx.Status, domain.StatusCompleted); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Someone else finished it; confirming a completed deal is a no-op.
			current, getErr := uc.txRepo.GetTransactionByID(tx.ID)
			if getErr == nil && current.Status == domain.StatusCompleted {
				return nil
			}
		}
		return err
	}

	if err := uc.accountRepo.CreditBalance(tx.SellerID(), tx.SellerReceives); err != nil {
		uc.logger.Error("failed to credit seller payout",
			"transaction_id", tx.ID, "seller_id", tx.SellerID(), "error", err.Error())
		return err
	}
	if err := uc.txRepo.SetCompletedAt(tx.ID, time.Now()); err != nil {
		uc.logger.Error("failed to stamp completion time", "transaction_id", tx.ID, "error", err.Error())
	}

	uc.metrics.TransactionsAmountTotal.WithLabelValues(string(domain.StatusCompleted)).Add(tx.Amount)
	uc.recordTransition(tx, tx.Status, domain.StatusCompleted)
	return nil
}

// Cancel moves PENDING -> CANCELLED. No funds have moved from PENDING, so
// there is nothing to reverse.
func (uc *DefaultTransactionUsecase) Cancel(txID string, caller domain.Identity) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.Status == domain.StatusCancelled {
		return nil
	}
	if tx.Status != domain.StatusPending {
		return fmt.Errorf("%w: cannot cancel from %s", domain.ErrConflict, tx.Status)
	}
	if !caller.Capability.IsStaff() && !tx.Slots.Holds(caller.UserID) {
		return fmt.Errorf("%w: caller is not a party of this deal", domain.ErrUnauthorized)
	}

	if err := uc.txRepo.UpdateTransactionStatus(txID, domain.StatusPending, domain.StatusCancelled); err != nil {
		return err
	}

	uc.metrics.TransactionsAmountTotal.WithLabelValues(string(domain.StatusCancelled)).Add(tx.Amount)
	uc.recordTransition(tx, domain.StatusPending, domain.StatusCancelled)
	return nil
}

// CancelExpired sweeps PENDING rooms past the configured TTL.
func (uc *DefaultTransactionUsecase) CancelExpired() error {
	expired, err := uc.txRepo.FindExpiredPending(time.Now().Add(-uc.platform.PendingRoomTTL))
	if err != nil {
		return err
	}

	for _, tx := range expired {
		if err := uc.txRepo.UpdateTransactionStatus(tx.ID, domain.StatusPending, domain.StatusCancelled); err != nil {
			uc.logger.Error("failed to cancel expired room", "transaction_id", tx.ID, "error", err.Error())
			continue
		}
		uc.recordTransition(tx, domain.StatusPending, domain.StatusCancelled)
	}

	return nil
}

func (uc *DefaultTransactionUsecase) recordTransition(tx *domain.Transaction, oldStatus, newStatus domain.TransactionStatus) {
	uc.metrics.TransitionsTotal.WithLabelValues(string(oldStatus), string(newStatus)).Inc()

	notifier.SendStatusChange(uc.webhookURL, notifier.StatusChangePayload{
		TransactionID: tx.ID,
		RoomID:        tx.RoomID,
		Code:          tx.Code,
		OldStatus:     string(oldStatus),
		NewStatus:     string(newStatus),
		Amount:        tx.Amount,
		OccurredAt:    time.Now(),
	})
}
