package room

import (
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const roomIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

type CreateRoomInput struct {
	Initiator   domain.Identity
	Role        domain.Role // BUYER or SELLER; ignored for staff initiators
	Category    string
	ProductName string
	Amount      float64
	FeeBearer   domain.FeeBearer
}

// CreateRoom opens a room with a fresh (room_id, room_password) pair in
// PENDING. Seller-initiated rooms carry the full fee preview; buyer- and
// staff-initiated rooms defer the amount to the seller-supplied join step.
func (uc *DefaultRoomUsecase) CreateRoom(input *CreateRoomInput) (*domain.Transaction, error) {
	roomIDGen, err := nanoid.CustomASCII(roomIDAlphabet, 8)
	if err != nil {
		return nil, err
	}
	passwordGen, err := nanoid.CustomASCII("0123456789", 6)
	if err != nil {
		return nil, err
	}
	codeGen, err := nanoid.CustomASCII(roomIDAlphabet, 10)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx := &domain.Transaction{
		ID:           uuid.NewString(),
		Code:         fmt.Sprintf("ESC-%s", codeGen()),
		RoomID:       roomIDGen(),
		RoomPassword: passwordGen(),
		Status:       domain.StatusPending,
		Slots:        domain.Slots{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch {
	case input.Initiator.Capability.IsStaff():
		// Staff open an empty placeholder room; the first non-staff joiner
		// picks a side explicitly.

	case input.Role == domain.RoleSeller:
		breakdown, err := uc.calc.Compute(input.Amount, uc.platform.FeePercent, input.FeeBearer)
		if err != nil {
			return nil, err
		}
		tx.Category = input.Category
		tx.ProductName = input.ProductName
		tx.Amount = breakdown.Amount
		tx.FeePercent = breakdown.FeePercent
		tx.FeeAmount = breakdown.FeeAmount
		tx.SellerReceives = breakdown.SellerReceives
		tx.FeeBearer = input.FeeBearer
		tx.Slots[domain.RoleSeller] = input.Initiator.UserID

	case input.Role == domain.RoleBuyer:
		tx.Slots[domain.RoleBuyer] = input.Initiator.UserID

	default:
		return nil, fmt.Errorf("%w: initiator role must be buyer or seller", domain.ErrValidation)
	}

	if err := uc.txRepo.CreateTransaction(tx); err != nil {
		return nil, err
	}

	uc.metrics.RoomsCreatedTotal.WithLabelValues(string(input.Role), string(input.FeeBearer)).Inc()
	uc.logger.Info("room created",
		"transaction_id", tx.ID,
		"room_id", tx.RoomID,
		"initiator", input.Initiator.UserID,
	)

	return tx, nil
}
