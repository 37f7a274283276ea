package funds

import (
	"errors"
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

// CreateWithdrawal is where a balance freeze becomes visible to the user:
// the account keeps working everywhere else, only withdrawal eligibility is
// blocked, and the response carries the freeze reason.
func (uc *DefaultFundsUsecase) CreateWithdrawal(userID string, amount float64) (*domain.Withdrawal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrValidation)
	}

	account, err := uc.accountRepo.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if account.IsBalanceFrozen {
		return nil, fmt.Errorf("%w: withdrawals blocked: %s", domain.ErrConflict, account.BalanceFreezeReason)
	}
	if account.Balance < amount {
		return nil, fmt.Errorf("%w: balance %.2f below requested %.2f",
			domain.ErrInsufficientBalance, account.Balance, amount)
	}

	last, err := uc.fundsRepo.LastWithdrawalByUser(userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if last != nil {
		nextAllowed := last.CreatedAt.Add(uc.platform.WithdrawalCooldown)
		if time.Now().Before(nextAllowed) {
			return nil, fmt.Errorf("%w: withdrawal cooldown until %s",
				domain.ErrConflict, nextAllowed.Format(time.RFC3339))
		}
	}

	now := time.Now()
	withdrawal := &domain.Withdrawal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    domain.FundsPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.fundsRepo.CreateWithdrawal(withdrawal); err != nil {
		return nil, err
	}

	go func(event kafka.WithdrawalRequestedEvent) {
		if err := uc.publisher.PublishEvent(event.UserID, event); err != nil {
			uc.logger.Error("failed to publish withdrawal event", "error", err.Error())
		}
	}(kafka.WithdrawalRequestedEvent{
		WithdrawalID: withdrawal.ID,
		UserID:       userID,
		Amount:       amount,
	})

	return withdrawal, nil
}

func (uc *DefaultFundsUsecase) ConfirmWithdrawal(withdrawalID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: withdrawal confirmation is staff-only", domain.ErrUnauthorized)
	}

	withdrawal, err := uc.fundsRepo.GetWithdrawalByID(withdrawalID)
	if err != nil {
		return err
	}
	if withdrawal.Status != domain.FundsPending {
		return fmt.Errorf("%w: withdrawal is %s", domain.ErrConflict, withdrawal.Status)
	}

	// Debit first: a withdrawal must never complete without its funds. Losing
	// the status race afterwards only costs a transient debit that is credited
	// straight back.
	if err := uc.accountRepo.DebitBalance(withdrawal.UserID, withdrawal.Amount); err != nil {
		// Balance moved since the request; put the record aside for review.
		if holdErr := uc.fundsRepo.UpdateWithdrawalStatus(withdrawalID, domain.FundsPending, domain.FundsOnHold); holdErr != nil {
			uc.logger.Error("failed to hold unfunded withdrawal",
				"withdrawal_id", withdrawalID, "error", holdErr.Error())
		}
		return err
	}

	if err := uc.fundsRepo.UpdateWithdrawalStatus(withdrawalID, domain.FundsPending, domain.FundsCompleted); err != nil {
		if creditErr := uc.accountRepo.CreditBalance(withdrawal.UserID, withdrawal.Amount); creditErr != nil {
			uc.logger.Error("failed to refund withdrawal after lost transition",
				"withdrawal_id", withdrawalID, "user_id", withdrawal.UserID, "error", creditErr.Error())
		}
		return err
	}

	uc.audit(staff, withdrawal.UserID, domain.ActionWithdrawalConfirm, -withdrawal.Amount, domain.SourceWithdrawal,
		fmt.Sprintf(`{"withdrawal_id":%q}`, withdrawalID), note)
	return nil
}

func (uc *DefaultFundsUsecase) RejectWithdrawal(withdrawalID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: withdrawal rejection is staff-only", domain.ErrUnauthorized)
	}

	withdrawal, err := uc.fundsRepo.GetWithdrawalByID(withdrawalID)
	if err != nil {
		return err
	}

	if err := uc.fundsRepo.UpdateWithdrawalStatus(withdrawalID, domain.FundsPending, domain.FundsRejected); err != nil {
		return err
	}

	uc.audit(staff, withdrawal.UserID, domain.ActionWithdrawalReject, 0, domain.SourceWithdrawal,
		fmt.Sprintf(`{"withdrawal_id":%q}`, withdrawalID), note)
	return nil
}
