package account

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

type EventPublisher interface {
	PublishEvent(key string, event interface{}) error
}

type AccountUsecase interface {
	GetOrCreateAccount(userID string) (*domain.Account, error)
	SubmitKYC(userID string) error
	ReviewKYC(userID string, staff domain.Identity, approved bool, note string) error
	AdjustBalance(userID string, staff domain.Identity, delta float64, source, note string) error
	Freeze(userID string, staff domain.Identity, reason string) error
	Unfreeze(userID string, staff domain.Identity, note string) error
}

type DefaultAccountUsecase struct {
	accountRepo domain.AccountRepository
	auditRepo   domain.AuditRepository
	publisher   EventPublisher
	logger      *slog.Logger
}

func NewDefaultAccountUsecase(
	accountRepo domain.AccountRepository,
	auditRepo domain.AuditRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *DefaultAccountUsecase {
	return &DefaultAccountUsecase{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// GetOrCreateAccount bootstraps the account on first touch. Accounts are
// never deleted afterwards, only flagged.
func (uc *DefaultAccountUsecase) GetOrCreateAccount(userID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetAccount(userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	account = &domain.Account{
		UserID:    userID,
		KYCStatus: domain.KYCNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.accountRepo.CreateAccount(account); err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *DefaultAccountUsecase) SubmitKYC(userID string) error {
	account, err := uc.accountRepo.GetAccount(userID)
	if err != nil {
		return err
	}
	if account.KYCStatus == domain.KYCApproved || account.KYCStatus == domain.KYCPending {
		return fmt.Errorf("%w: kyc already %s", domain.ErrConflict, account.KYCStatus)
	}

	if err := uc.accountRepo.UpdateKYCStatus(userID, domain.KYCPending); err != nil {
		return err
	}

	go func(event kafka.KYCSubmittedEvent) {
		if err := uc.publisher.PublishEvent(event.UserID, event); err != nil {
			uc.logger.Error("failed to publish kyc event", "error", err.Error())
		}
	}(kafka.KYCSubmittedEvent{UserID: userID})

	return nil
}

func (uc *DefaultAccountUsecase) ReviewKYC(userID string, staff domain.Identity, approved bool, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: kyc review is staff-only", domain.ErrUnauthorized)
	}

	account, err := uc.accountRepo.GetAccount(userID)
	if err != nil {
		return err
	}
	if account.KYCStatus != domain.KYCPending {
		return fmt.Errorf("%w: kyc is %s, nothing to review", domain.ErrConflict, account.KYCStatus)
	}

	status := domain.KYCRejected
	if approved {
		status = domain.KYCApproved
	}
	if err := uc.accountRepo.UpdateKYCStatus(userID, status); err != nil {
		return err
	}

	uc.audit(staff, userID, domain.ActionKYCReview, 0, domain.SourceManual,
		fmt.Sprintf(`{"kyc_status":%q}`, status), note)
	return nil
}

// AdjustBalance is the privileged manual mutation. Every adjustment lands in
// the audit trail with its source; a sourceless write is recorded as unknown
// and will be flagged by the reconciliation engine.
func (uc *DefaultAccountUsecase) AdjustBalance(userID string, staff domain.Identity, delta float64, source, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: balance adjustment is staff-only", domain.ErrUnauthorized)
	}
	if delta == 0 {
		return fmt.Errorf("%w: adjustment delta must be nonzero", domain.ErrValidation)
	}
	if source == "" {
		source = domain.SourceUnknown
	}

	if delta > 0 {
		if err := uc.accountRepo.CreditBalance(userID, delta); err != nil {
			return err
		}
	} else {
		if err := uc.accountRepo.DebitBalance(userID, -delta); err != nil {
			return err
		}
	}

	uc.audit(staff, userID, domain.ActionBalanceAdjust, delta, source, "", note)
	return nil
}

func (uc *DefaultAccountUsecase) Freeze(userID string, staff domain.Identity, reason string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: freezing is staff-only", domain.ErrUnauthorized)
	}
	if reason == "" {
		return fmt.Errorf("%w: freeze reason is required", domain.ErrValidation)
	}

	if err := uc.accountRepo.FreezeBalance(userID, reason, time.Now()); err != nil {
		return err
	}

	uc.audit(staff, userID, domain.ActionBalanceFreeze, 0, domain.SourceManual, "", reason)
	return nil
}

func (uc *DefaultAccountUsecase) Unfreeze(userID string, staff domain.Identity, note string) error {
	if !staff.Capability.IsStaff() {
		return fmt.Errorf("%w: unfreezing is staff-only", domain.ErrUnauthorized)
	}

	if err := uc.accountRepo.UnfreezeBalance(userID); err != nil {
		return err
	}

	uc.audit(staff, userID, domain.ActionBalanceUnfreeze, 0, domain.SourceManual, "", note)
	return nil
}

func (uc *DefaultAccountUsecase) audit(staff domain.Identity, targetID, actionType string, delta float64, source, details, note string) {
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
