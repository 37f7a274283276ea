package models

import (
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type AccountModel struct {
	UserID              string           `gorm:"primaryKey;type:uuid"`
	Balance             float64
	IsBalanceFrozen     bool             `gorm:"index"`
	BalanceFrozenAt     *time.Time
	BalanceFreezeReason string
	IsSuspicious        bool
	SuspiciousReason    string
	KYCStatus           domain.KYCStatus `gorm:"column:kyc_status"`
	ReputationScore     int32
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
