package mappers

import (
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
)

func ToDomainActionLog(model *models.AdminActionLogModel) *domain.AdminActionLog {
	return &domain.AdminActionLog{
		ID:           model.ID,
		ActorID:      model.ActorID,
		TargetUserID: model.TargetUserID,
		ActionType:   model.ActionType,
		BalanceDelta: model.BalanceDelta,
		Source:       model.Source,
		Details:      model.Details,
		Note:         model.Note,
		CreatedAt:    model.CreatedAt,
	}
}

func ToGORMActionLog(entry *domain.AdminActionLog) *models.AdminActionLogModel {
	return &models.AdminActionLogModel{
		ID:           entry.ID,
		ActorID:      entry.ActorID,
		TargetUserID: entry.TargetUserID,
		ActionType:   entry.ActionType,
		BalanceDelta: entry.BalanceDelta,
		Source:       entry.Source,
		Details:      entry.Details,
		Note:         entry.Note,
		CreatedAt:    entry.CreatedAt,
	}
}

func ToGORMRiskAlert(alert *domain.RiskAlert) *models.RiskAlertModel {
	return &models.RiskAlertModel{
		ID:           alert.ID,
		TargetUserID: alert.TargetUserID,
		AlertType:    alert.AlertType,
		Severity:     alert.Severity,
		Description:  alert.Description,
		CreatedAt:    alert.CreatedAt,
	}
}
