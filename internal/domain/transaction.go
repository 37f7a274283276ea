package domain

import "time"

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusDeposited TransactionStatus = "DEPOSITED"
	StatusShipping  TransactionStatus = "SHIPPING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusDisputed  TransactionStatus = "DISPUTED"
	StatusCancelled TransactionStatus = "CANCELLED"
	StatusRefunded  TransactionStatus = "REFUNDED"
)

// IsTerminal reports whether no further transition may leave the status.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

type FeeBearer string

const (
	FeeBearerBuyer  FeeBearer = "BUYER"
	FeeBearerSeller FeeBearer = "SELLER"
	FeeBearerSplit  FeeBearer = "SPLIT"
)

type Role string

const (
	RoleBuyer     Role = "BUYER"
	RoleSeller    Role = "SELLER"
	RoleModerator Role = "MODERATOR"
	RoleArbiter   Role = "ARBITER"
)

// ParticipantRoles is the fixed set of slots a room carries.
var ParticipantRoles = []Role{RoleBuyer, RoleSeller, RoleModerator, RoleArbiter}

// Slots maps a role to the user occupying it. A missing or empty
// value means the slot is vacant.
type Slots map[Role]string

func (s Slots) Occupant(role Role) string {
	return s[role]
}

func (s Slots) Vacant(role Role) bool {
	return s[role] == ""
}

func (s Slots) Holds(userID string) bool {
	for _, occupant := range s {
		if occupant != "" && occupant == userID {
			return true
		}
	}
	return false
}

func (s Slots) Count() int {
	n := 0
	for _, occupant := range s {
		if occupant != "" {
			n++
		}
	}
	return n
}

type Transaction struct {
	ID              string
	Code            string
	RoomID          string
	RoomPassword    string
	Status          TransactionStatus
	Category        string
	ProductName     string
	Amount          float64
	FeePercent      float64
	FeeAmount       float64
	SellerReceives  float64
	FeeBearer       FeeBearer
	Slots           Slots
	BuyerConfirmed  bool
	SellerConfirmed bool
	DisputeReason   string
	DisputeAt       *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *Transaction) BuyerID() string  { return t.Slots.Occupant(RoleBuyer) }
func (t *Transaction) SellerID() string { return t.Slots.Occupant(RoleSeller) }

// Placeholder reports whether the room was opened without deal terms:
// no trading parties yet and the amount deferred to a later seller step.
func (t *Transaction) Placeholder() bool {
	return t.Amount == 0 && t.Slots.Vacant(RoleBuyer) && t.Slots.Vacant(RoleSeller)
}

// TransactionDetails is the seller-supplied deal description for rooms
// created without one.
type TransactionDetails struct {
	Category       string
	ProductName    string
	Amount         float64
	FeePercent     float64
	FeeAmount      float64
	SellerReceives float64
	FeeBearer      FeeBearer
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	GetTransactionByID(txID string) (*Transaction, error)
	GetTransactionByRoomID(roomID string) (*Transaction, error)

	// AssignSlot claims a vacant slot for userID. It must be executed as a
	// single conditional statement: at most one caller wins a given slot,
	// losers get ErrConflict.
	AssignSlot(txID string, role Role, userID string) error

	// UpdateTransactionStatus moves txID from oldStatus to newStatus as a
	// single conditional statement. ErrConflict when the stored status no
	// longer equals oldStatus.
	UpdateTransactionStatus(txID string, oldStatus, newStatus TransactionStatus) error

	UpdateTransactionDetails(txID string, details *TransactionDetails) error
	SetConfirmation(txID string, role Role) error
	SetDispute(txID string, reason string, disputedAt time.Time) error
	SetCompletedAt(txID string, completedAt time.Time) error

	FindUserTransactions(userID string, role Role, statuses []TransactionStatus) ([]*Transaction, error)
	FindExpiredPending(olderThan time.Time) ([]*Transaction, error)
}
