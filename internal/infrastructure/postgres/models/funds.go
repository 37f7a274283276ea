package models

import (
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type DepositModel struct {
	ID        string             `gorm:"primaryKey;type:uuid"`
	UserID    string             `gorm:"type:uuid;index:idx_deposit_user_status"`
	Amount    float64
	Status    domain.FundsStatus `gorm:"index:idx_deposit_user_status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WithdrawalModel struct {
	ID        string             `gorm:"primaryKey;type:uuid"`
	UserID    string             `gorm:"type:uuid;index:idx_withdrawal_user_status"`
	Amount    float64
	Status    domain.FundsStatus `gorm:"index:idx_withdrawal_user_status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
