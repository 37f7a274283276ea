package repository

import (
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/mappers"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// DefaultAuditRepository only ever inserts log rows. There is no update or
// delete path: the trail is append-only.
type DefaultAuditRepository struct {
	DB *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{DB: db}
}

func (r *DefaultAuditRepository) CreateActionLog(entry *domain.AdminActionLog) error {
	return r.DB.Create(mappers.ToGORMActionLog(entry)).Error
}

func (r *DefaultAuditRepository) CreateRiskAlert(alert *domain.RiskAlert) error {
	return r.DB.Create(mappers.ToGORMRiskAlert(alert)).Error
}

func (r *DefaultAuditRepository) ListActionLogsByTarget(userID string, limit int) ([]*domain.AdminActionLog, error) {
	var logModels []models.AdminActionLogModel
	err := r.DB.
		Where("target_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logModels).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.AdminActionLog, len(logModels))
	for i, logModel := range logModels {
		entries[i] = mappers.ToDomainActionLog(&logModel)
	}

	return entries, nil
}

func (r *DefaultAuditRepository) SumUnknownSourceDeltas(userID string) (float64, error) {
	var total float64
	err := r.DB.Model(&models.AdminActionLogModel{}).
		Where("target_user_id = ? AND source = ?", userID, domain.SourceUnknown).
		Select("COALESCE(SUM(balance_delta), 0)").
		Scan(&total).Error
	return total, err
}
