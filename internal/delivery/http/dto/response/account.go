package response

import (
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type AccountResponse struct {
	UserID              string     `json:"user_id"`
	Balance             float64    `json:"balance"`
	IsBalanceFrozen     bool       `json:"is_balance_frozen"`
	BalanceFrozenAt     *time.Time `json:"balance_frozen_at,omitempty"`
	BalanceFreezeReason string     `json:"balance_freeze_reason,omitempty"`
	KYCStatus           string     `json:"kyc_status"`
	ReputationScore     int32      `json:"reputation_score"`
	CreatedAt           time.Time  `json:"created_at"`
}

func FromDomainAccount(account *domain.Account) *AccountResponse {
	return &AccountResponse{
		UserID:              account.UserID,
		Balance:             account.Balance,
		IsBalanceFrozen:     account.IsBalanceFrozen,
		BalanceFrozenAt:     account.BalanceFrozenAt,
		BalanceFreezeReason: account.BalanceFreezeReason,
		KYCStatus:           string(account.KYCStatus),
		ReputationScore:     account.ReputationScore,
		CreatedAt:           account.CreatedAt,
	}
}
