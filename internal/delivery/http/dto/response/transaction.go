package response

import (
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type TransactionResponse struct {
	ID              string            `json:"id"`
	Code            string            `json:"code"`
	RoomID          string            `json:"room_id"`
	RoomPassword    string            `json:"room_password,omitempty"`
	Status          string            `json:"status"`
	Category        string            `json:"category,omitempty"`
	ProductName     string            `json:"product_name,omitempty"`
	Amount          float64           `json:"amount"`
	FeePercent      float64           `json:"fee_percent"`
	FeeAmount       float64           `json:"fee_amount"`
	SellerReceives  float64           `json:"seller_receives"`
	FeeBearer       string            `json:"fee_bearer"`
	Slots           map[string]string `json:"slots"`
	BuyerConfirmed  bool              `json:"buyer_confirmed"`
	SellerConfirmed bool              `json:"seller_confirmed"`
	DisputeReason   string            `json:"dispute_reason,omitempty"`
	DisputeAt       *time.Time        `json:"dispute_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func FromDomainTransaction(tx *domain.Transaction, includePassword bool) *TransactionResponse {
	slots := make(map[string]string, len(tx.Slots))
	for role, occupant := range tx.Slots {
		if occupant != "" {
			slots[string(role)] = occupant
		}
	}

	resp := &TransactionResponse{
		ID:              tx.ID,
		Code:            tx.Code,
		RoomID:          tx.RoomID,
		Status:          string(tx.Status),
		Category:        tx.Category,
		ProductName:     tx.ProductName,
		Amount:          tx.Amount,
		FeePercent:      tx.FeePercent,
		FeeAmount:       tx.FeeAmount,
		SellerReceives:  tx.SellerReceives,
		FeeBearer:       string(tx.FeeBearer),
		Slots:           slots,
		BuyerConfirmed:  tx.BuyerConfirmed,
		SellerConfirmed: tx.SellerConfirmed,
		DisputeReason:   tx.DisputeReason,
		DisputeAt:       tx.DisputeAt,
		CompletedAt:     tx.CompletedAt,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
	if includePassword {
		resp.RoomPassword = tx.RoomPassword
	}
	return resp
}
