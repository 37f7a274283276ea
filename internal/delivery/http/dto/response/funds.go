package response

import (
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type DepositResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDomainDeposit(deposit *domain.Deposit) *DepositResponse {
	return &DepositResponse{
		ID:        deposit.ID,
		UserID:    deposit.UserID,
		Amount:    deposit.Amount,
		Status:    string(deposit.Status),
		CreatedAt: deposit.CreatedAt,
	}
}

type WithdrawalResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDomainWithdrawal(withdrawal *domain.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:        withdrawal.ID,
		UserID:    withdrawal.UserID,
		Amount:    withdrawal.Amount,
		Status:    string(withdrawal.Status),
		CreatedAt: withdrawal.CreatedAt,
	}
}
