package domain

import "time"

type FundsStatus string

const (
	FundsPending   FundsStatus = "PENDING"
	FundsCompleted FundsStatus = "COMPLETED"
	FundsRejected  FundsStatus = "REJECTED"
	FundsOnHold    FundsStatus = "ON_HOLD"
)

type Deposit struct {
	ID        string
	UserID    string
	Amount    float64
	Status    FundsStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Withdrawal struct {
	ID        string
	UserID    string
	Amount    float64
	Status    FundsStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FundsRepository interface {
	CreateDeposit(deposit *Deposit) error
	GetDepositByID(depositID string) (*Deposit, error)

	// UpdateDepositStatus moves depositID from oldStatus to newStatus as a
	// single conditional statement; completed records stay immutable.
	// ErrConflict when the stored status no longer equals oldStatus.
	UpdateDepositStatus(depositID string, oldStatus, newStatus FundsStatus) error

	CreateWithdrawal(withdrawal *Withdrawal) error
	GetWithdrawalByID(withdrawalID string) (*Withdrawal, error)
	UpdateWithdrawalStatus(withdrawalID string, oldStatus, newStatus FundsStatus) error
	LastWithdrawalByUser(userID string) (*Withdrawal, error)

	SumDepositsByUser(userID string, status FundsStatus) (float64, error)
	CountDepositsByUser(userID string, status FundsStatus) (int64, error)
	SumWithdrawalsByUser(userID string, status FundsStatus) (float64, error)
}
