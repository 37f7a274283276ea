package domain

import "time"

// Audit action types recorded on balance-affecting and privileged operations.
const (
	ActionDepositConfirm    = "DEPOSIT_CONFIRM"
	ActionDepositReject     = "DEPOSIT_REJECT"
	ActionWithdrawalConfirm = "WITHDRAWAL_CONFIRM"
	ActionWithdrawalReject  = "WITHDRAWAL_REJECT"
	ActionDisputeResolve    = "DISPUTE_RESOLVE"
	ActionDisputeRefund     = "DISPUTE_REFUND"
	ActionBalanceAdjust     = "BALANCE_ADJUST"
	ActionBalanceFreeze     = "BALANCE_FREEZE"
	ActionBalanceUnfreeze   = "BALANCE_UNFREEZE"
	ActionKYCReview         = "KYC_REVIEW"
	ActionStaffJoin         = "STAFF_JOIN"
)

// Balance-change source tags. Writes that carry no source land as unknown
// and are what the reconciliation engine hunts for.
const (
	SourceDeposit     = "deposit"
	SourceWithdrawal  = "withdrawal"
	SourceTransaction = "transaction"
	SourceManual      = "manual"
	SourceUnknown     = "unknown"
)

// AdminActionLog entries are append-only: never updated, never deleted.
// They are the sole authoritative history for reconciliation and compliance.
type AdminActionLog struct {
	ID           string
	ActorID      string
	TargetUserID string
	ActionType   string
	BalanceDelta float64
	Source       string
	Details      string
	Note         string
	CreatedAt    time.Time
}

type RiskAlert struct {
	ID           string
	TargetUserID string
	AlertType    string
	Severity     string
	Description  string
	CreatedAt    time.Time
}

type AuditRepository interface {
	CreateActionLog(entry *AdminActionLog) error
	CreateRiskAlert(alert *RiskAlert) error
	ListActionLogsByTarget(userID string, limit int) ([]*AdminActionLog, error)

	// SumUnknownSourceDeltas totals balance deltas recorded against userID
	// with no explained source.
	SumUnknownSourceDeltas(userID string) (float64, error)
}
