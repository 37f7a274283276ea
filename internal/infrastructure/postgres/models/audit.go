package models

import "time"

type AdminActionLogModel struct {
	ID           string  `gorm:"primaryKey;type:uuid"`
	ActorID      string  `gorm:"index"`
	TargetUserID string  `gorm:"index:idx_audit_target_source"`
	ActionType   string
	BalanceDelta float64
	Source       string  `gorm:"index:idx_audit_target_source"`
	Details      string
	Note         string
	CreatedAt    time.Time `gorm:"index"`
}

type RiskAlertModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	TargetUserID string `gorm:"index"`
	AlertType    string
	Severity     string
	Description  string
	CreatedAt    time.Time
}
