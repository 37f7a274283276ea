package reconciliation

import "time"

const (
	AnomalyBalanceInflated    = "BALANCE_INFLATED"
	AnomalyBalanceDeflated    = "BALANCE_DEFLATED"
	AnomalyUnexplainedBalance = "UNEXPLAINED_BALANCE"
	AnomalySuspiciousChange   = "SUSPICIOUS_BALANCE_CHANGE"

	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// autoFreeze maps anomaly type to the freeze action. Deflation is recorded
// but deliberately does not freeze.
var autoFreeze = map[string]bool{
	AnomalyBalanceInflated:    true,
	AnomalyBalanceDeflated:    false,
	AnomalyUnexplainedBalance: true,
	AnomalySuspiciousChange:   true,
}

type Anomaly struct {
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Expected    float64 `json:"expected"`
	Actual      float64 `json:"actual"`
	Difference  float64 `json:"difference"`
	Description string  `json:"description"`
	Frozen      bool    `json:"frozen"`
}

// Report is the best-effort scan summary. Per-account failures are logged
// and counted against nothing; a scan never aborts midway.
type Report struct {
	ScannedAt      time.Time  `json:"scanned_at"`
	Scanned        int        `json:"scanned"`
	AnomaliesFound int        `json:"anomalies_found"`
	AccountsFrozen int        `json:"accounts_frozen"`
	Anomalies      []*Anomaly `json:"anomalies"`
}
