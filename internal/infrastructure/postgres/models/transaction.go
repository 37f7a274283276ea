package models

import (
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type TransactionModel struct {
	ID              string                   `gorm:"primaryKey;type:uuid"`
	Code            string                   `gorm:"uniqueIndex"`
	RoomID          string                   `gorm:"uniqueIndex"`
	RoomPassword    string
	Status          domain.TransactionStatus `gorm:"index:idx_status_created"`
	Category        string
	ProductName     string
	Amount          float64                  `gorm:"index:idx_amount"`
	FeePercent      float64
	FeeAmount       float64
	SellerReceives  float64
	FeeBearer       string
	BuyerID         *string                  `gorm:"index"`
	SellerID        *string                  `gorm:"index"`
	ModeratorID     *string
	ArbiterID       *string
	BuyerConfirmed  bool
	SellerConfirmed bool
	DisputeReason   string
	DisputeAt       *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time                `gorm:"index:idx_status_created"`
	UpdatedAt       time.Time
}
