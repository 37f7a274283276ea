package funds

import (
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/google/uuid"
)

func (uc *DefaultFundsUsecase) CreateDeposit(userID string, amount float64) (*domain.Deposit, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", domain.ErrValidation)
	}
	if _, err := uc.accountRepo.GetAccount(userID); err != nil {
		return nil, err
	}

	now := time.Now()
	deposit := &domain.Deposit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    domain.FundsPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.fundsRepo.CreateDeposit(deposit); err != nil {
		return nil, err
	}

	return deposit, nil
}

// ConfirmDeposit treats the bank transfer as an already-validated external
// event: staff confirmation credits the account once and leaves the record
// immutable.
func (uc *DefaultFundsUsecase) ConfirmDeposit(depositID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: deposit confirmation is staff-only", domain.ErrUnauthorized)
	}

	deposit, err := uc.fundsRepo.GetDepositByID(depositID)
	if err != nil {
		return err
	}

	if err := uc.fundsRepo.UpdateDepositStatus(depositID, domain.FundsPending, domain.FundsCompleted); err != nil {
		return err
	}

	if err := uc.accountRepo.CreditBalance(deposit.UserID, deposit.Amount); err != nil {
		uc.logger.Error("failed to credit confirmed deposit",
			"deposit_id", depositID, "user_id", deposit.UserID, "error", err.Error())
		return err
	}

	uc.audit(staff, deposit.UserID, domain.ActionDepositConfirm, deposit.Amount, domain.SourceDeposit,
		fmt.Sprintf(`{"deposit_id":%q}`, depositID), note)
	return nil
}

func (uc *DefaultFundsUsecase) RejectDeposit(depositID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: deposit rejection is staff-only", domain.ErrUnauthorized)
	}

	deposit, err := uc.fundsRepo.GetDepositByID(depositID)
	if err != nil {
		return err
	}

	if err := uc.fundsRepo.UpdateDepositStatus(depositID, domain.FundsPending, domain.FundsRejected); err != nil {
		return err
	}

	uc.audit(staff, deposit.UserID, domain.ActionDepositReject, 0, domain.SourceDeposit,
		fmt.Sprintf(`{"deposit_id":%q}`, depositID), note)
	return nil
}

func (uc *DefaultFundsUsecase) audit(staff domain.Identity, targetID, actionType string, delta float64, source, details, note string) {
	entry := &domain.AdminActionLog{
		ID:           uuid.NewString(),
		ActorID:      staff.UserID,
		TargetUserID: targetID,
		ActionType:   actionType,
		BalanceDelta: delta,
		Source:       source,
		Details:      details,
		Note:         note,
		CreatedAt:    time.Now(),
	}
	if err := uc.auditRepo.CreateActionLog(entry); err != nil {
		uc.logger.Error("failed to write audit entry", "action", actionType, "error", err.Error())
	}
}
