package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/mappers"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultFundsRepository struct {
	DB *gorm.DB
}

func NewDefaultFundsRepository(db *gorm.DB) *DefaultFundsRepository {
	return &DefaultFundsRepository{DB: db}
}

func (r *DefaultFundsRepository) CreateDeposit(deposit *domain.Deposit) error {
	return r.DB.Create(mappers.ToGORMDeposit(deposit)).Error
}

func (r *DefaultFundsRepository) GetDepositByID(depositID string) (*domain.Deposit, error) {
	var depositModel models.DepositModel
	if err := r.DB.First(&depositModel, "id = ?", depositID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: deposit %s", domain.ErrNotFound, depositID)
		}
		return nil, err
	}
	return mappers.ToDomainDeposit(&depositModel), nil
}

func (r *DefaultFundsRepository) UpdateDepositStatus(depositID string, oldStatus, newStatus domain.FundsStatus) error {
	result := r.DB.Model(&models.DepositModel{}).
		Where("id = ? AND status = ?", depositID, oldStatus).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: deposit %s is no longer %s", domain.ErrConflict, depositID, oldStatus)
	}
	return nil
}

func (r *DefaultFundsRepository) CreateWithdrawal(withdrawal *domain.Withdrawal) error {
	return r.DB.Create(mappers.ToGORMWithdrawal(withdrawal)).Error
}

func (r *DefaultFundsRepository) GetWithdrawalByID(withdrawalID string) (*domain.Withdrawal, error) {
	var withdrawalModel models.WithdrawalModel
	if err := r.DB.First(&withdrawalModel, "id = ?", withdrawalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: withdrawal %s", domain.ErrNotFound, withdrawalID)
		}
		return nil, err
	}
	return mappers.ToDomainWithdrawal(&withdrawalModel), nil
}

func (r *DefaultFundsRepository) UpdateWithdrawalStatus(withdrawalID string, oldStatus, newStatus domain.FundsStatus) error {
	result := r.DB.Model(&models.WithdrawalModel{}).
		Where("id = ? AND status = ?", withdrawalID, oldStatus).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: withdrawal %s is no longer %s", domain.ErrConflict, withdrawalID, oldStatus)
	}
	return nil
}

func (r *DefaultFundsRepository) LastWithdrawalByUser(userID string) (*domain.Withdrawal, error) {
	var withdrawalModel models.WithdrawalModel
	err := r.DB.
		Where("user_id = ? AND status IN (?)", userID, []domain.FundsStatus{domain.FundsPending, domain.FundsCompleted}).
		Order("created_at DESC").
		First(&withdrawalModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no withdrawals for %s", domain.ErrNotFound, userID)
		}
		return nil, err
	}
	return mappers.ToDomainWithdrawal(&withdrawalModel), nil
}

func (r *DefaultFundsRepository) SumDepositsByUser(userID string, status domain.FundsStatus) (float64, error) {
	var total float64
	err := r.DB.Model(&models.DepositModel{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *DefaultFundsRepository) CountDepositsByUser(userID string, status domain.FundsStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&models.DepositModel{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

func (r *DefaultFundsRepository) SumWithdrawalsByUser(userID string, status domain.FundsStatus) (float64, error) {
	var total float64
	err := r.DB.Model(&models.WithdrawalModel{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
