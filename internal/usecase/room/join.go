package room

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/usecase/fees"
	"github.com/google/uuid"
)

type JoinRoomInput struct {
	RoomID   string
	Password string
	Caller   domain.Identity

	// Role is the explicitly requested side. Mandatory for the first
	// non-staff joiner of a placeholder room, optional otherwise.
	Role domain.Role

	// Details must accompany a seller claiming a room whose amount is
	// still deferred.
	Details *SellerDetails
}

type SellerDetails struct {
	Category    string
	ProductName string
	Amount      float64
	FeeBearer   domain.FeeBearer
}

// JoinRoom runs the whole join protocol. Slot claims go through a single
// conditional update in the repository; a caller losing that race gets
// ErrConflict and retries the flow from the top.
func (uc *DefaultRoomUsecase) JoinRoom(input *JoinRoomInput) (*domain.Transaction, error) {
	tx, err := uc.txRepo.GetTransactionByRoomID(input.RoomID)
	if err != nil {
		return nil, err
	}

	if !input.Caller.Capability.IsStaff() {
		if normalizePassword(input.Password) != normalizePassword(tx.RoomPassword) {
			return nil, fmt.Errorf("%w: wrong room password", domain.ErrUnauthorized)
		}
	}

	// Re-joining a slot the caller already holds is a success without mutation.
	if tx.Slots.Holds(input.Caller.UserID) {
		return tx, nil
	}

	if input.Caller.Capability.IsStaff() {
		return uc.joinStaff(tx, input.Caller)
	}

	return uc.joinParticipant(tx, input)
}

// joinStaff seats a staff member: admins prefer the arbiter slot, moderators
// the moderator slot, each falling back to the other. Staff never occupy
// trading slots.
func (uc *DefaultRoomUsecase) joinStaff(tx *domain.Transaction, caller domain.Identity) (*domain.Transaction, error) {
	preference := []domain.Role{domain.RoleModerator, domain.RoleArbiter}
	if caller.Capability == domain.CapabilityAdmin {
		preference = []domain.Role{domain.RoleArbiter, domain.RoleModerator}
	}

	for _, role := range preference {
		if !tx.Slots.Vacant(role) {
			continue
		}
		if err := uc.txRepo.AssignSlot(tx.ID, role, caller.UserID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return nil, err
		}

		// First entry for this slot only: the claim can succeed at most once,
		// so the audit message cannot repeat.
		uc.recordStaffEntry(tx, caller, role)
		uc.metrics.RoomsJoinedTotal.WithLabelValues(string(role)).Inc()
		return uc.txRepo.GetTransactionByID(tx.ID)
	}

	uc.metrics.JoinConflictsTotal.WithLabelValues(string(domain.RoleModerator)).Inc()
	return nil, fmt.Errorf("%w: room already has staff", domain.ErrConflict)
}

func (uc *DefaultRoomUsecase) joinParticipant(tx *domain.Transaction, input *JoinRoomInput) (*domain.Transaction, error) {
	caller := input.Caller

	if !tx.Slots.Vacant(domain.RoleBuyer) && !tx.Slots.Vacant(domain.RoleSeller) {
		uc.metrics.JoinConflictsTotal.WithLabelValues(string(input.Role)).Inc()
		return nil, fmt.Errorf("%w: both trading slots are taken", domain.ErrConflict)
	}
	if tx.Slots.Count() >= len(domain.ParticipantRoles) {
		uc.metrics.JoinConflictsTotal.WithLabelValues(string(input.Role)).Inc()
		return nil, fmt.Errorf("%w: room is full", domain.ErrConflict)
	}

	target, err := uc.pickSlot(tx, input)
	if err != nil {
		return nil, err
	}

	if target == domain.RoleSeller && tx.Amount == 0 {
		if input.Details == nil {
			return nil, fmt.Errorf("%w: seller must supply deal details", domain.ErrValidation)
		}
		// Validate terms before touching the room.
		if _, err := uc.calc.Compute(input.Details.Amount, uc.platform.FeePercent, input.Details.FeeBearer); err != nil {
			return nil, err
		}
	}

	if target == domain.RoleBuyer && tx.Amount > 0 {
		if err := uc.buyerPreflight(caller.UserID, tx); err != nil {
			return nil, err
		}
	}

	if err := uc.txRepo.AssignSlot(tx.ID, target, caller.UserID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.metrics.JoinConflictsTotal.WithLabelValues(string(target)).Inc()
		}
		return nil, err
	}

	if target == domain.RoleSeller && tx.Amount == 0 {
		if err := uc.applySellerDetails(tx.ID, input.Details); err != nil {
			return nil, err
		}
	}

	uc.metrics.RoomsJoinedTotal.WithLabelValues(string(target)).Inc()
	return uc.txRepo.GetTransactionByID(tx.ID)
}

func (uc *DefaultRoomUsecase) pickSlot(tx *domain.Transaction, input *JoinRoomInput) (domain.Role, error) {
	buyerVacant := tx.Slots.Vacant(domain.RoleBuyer)
	sellerVacant := tx.Slots.Vacant(domain.RoleSeller)

	// A staff-created room with no parties and no terms needs an explicit
	// side from the first joiner.
	if tx.Placeholder() {
		switch input.Role {
		case domain.RoleBuyer, domain.RoleSeller:
			return input.Role, nil
		case "":
			return "", fmt.Errorf("%w: empty room requires an explicit role choice", domain.ErrValidation)
		default:
			return "", fmt.Errorf("%w: role %q cannot be requested", domain.ErrValidation, input.Role)
		}
	}

	switch {
	case !sellerVacant && buyerVacant:
		return domain.RoleBuyer, nil
	case !buyerVacant && sellerVacant:
		return domain.RoleSeller, nil
	default:
		if input.Role == domain.RoleBuyer {
			return domain.RoleBuyer, nil
		}
		return domain.RoleSeller, nil
	}
}

// buyerPreflight rejects a buyer who could not fund the deal: required
// payable is the amount plus the buyer-side fee share. A buyer without an
// account row simply has a zero balance.
func (uc *DefaultRoomUsecase) buyerPreflight(userID string, tx *domain.Transaction) error {
	var balance float64
	account, err := uc.accountRepo.GetAccount(userID)
	switch {
	case err == nil:
		balance = account.Balance
	case errors.Is(err, domain.ErrNotFound):
	default:
		return err
	}

	payable := tx.Amount + fees.BuyerShare(tx.FeeAmount, tx.FeeBearer)
	if balance < payable {
		return fmt.Errorf("%w: balance %.2f below required payable %.2f",
			domain.ErrInsufficientBalance, balance, payable)
	}
	return nil
}

func (uc *DefaultRoomUsecase) applySellerDetails(txID string, details *SellerDetails) error {
	breakdown, err := uc.calc.Compute(details.Amount, uc.platform.FeePercent, details.FeeBearer)
	if err != nil {
		return err
	}

	return uc.txRepo.UpdateTransactionDetails(txID, &domain.TransactionDetails{
		Category:       details.Category,
		ProductName:    details.ProductName,
		Amount:         breakdown.Amount,
		FeePercent:     breakdown.FeePercent,
		FeeAmount:      breakdown.FeeAmount,
		SellerReceives: breakdown.SellerReceives,
		FeeBearer:      details.FeeBearer,
	})
}

func (uc *DefaultRoomUsecase) recordStaffEntry(tx *domain.Transaction, caller domain.Identity, role domain.Role) {
	entry := &domain.AdminActionLog{
		ID:           uuid.NewString(),
		ActorID:      caller.UserID,
		TargetUserID: caller.UserID,
		ActionType:   domain.ActionStaffJoin,
		Source:       domain.SourceTransaction,
		Details:      fmt.Sprintf(`{"transaction_id":%q,"room_id":%q,"slot":%q}`, tx.ID, tx.RoomID, role),
		Note:         fmt.Sprintf("staff joined room %s as %s", tx.RoomID, strings.ToLower(string(role))),
		CreatedAt:    time.Now(),
	}
	if err := uc.auditRepo.CreateActionLog(entry); err != nil {
		uc.logger.Error("failed to record staff entry", "transaction_id", tx.ID, "error", err.Error())
	}
}

func normalizePassword(password string) string {
	return strings.ToLower(strings.TrimSpace(password))
}
