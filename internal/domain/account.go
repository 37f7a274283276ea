package domain

import "time"

type KYCStatus string

const (
	KYCNone     KYCStatus = "NONE"
	KYCPending  KYCStatus = "PENDING"
	KYCApproved KYCStatus = "APPROVED"
	KYCRejected KYCStatus = "REJECTED"
)

type Account struct {
	UserID              string
	Balance             float64
	IsBalanceFrozen     bool
	BalanceFrozenAt     *time.Time
	BalanceFreezeReason string
	IsSuspicious        bool
	SuspiciousReason    string
	KYCStatus           KYCStatus
	ReputationScore     int32
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccount(userID string) (*Account, error)

	// CreditBalance applies an atomic `balance = balance + delta`.
	CreditBalance(userID string, delta float64) error

	// DebitBalance applies an atomic `balance = balance - amount` guarded by
	// `balance >= amount`. ErrInsufficientBalance when the guard fails.
	DebitBalance(userID string, amount float64) error

	// FreezeBalance marks the account withdrawal-blocked. Skips nothing and
	// alters no balance value. ErrConflict when already frozen.
	FreezeBalance(userID, reason string, frozenAt time.Time) error
	UnfreezeBalance(userID string) error

	UpdateKYCStatus(userID string, status KYCStatus) error

	ListAccounts(offset, limit int) ([]*Account, error)
}
