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

type DefaultAccountRepository struct {
	DB *gorm.DB
}

func NewDefaultAccountRepository(db *gorm.DB) *DefaultAccountRepository {
	return &DefaultAccountRepository{DB: db}
}

func (r *DefaultAccountRepository) CreateAccount(account *domain.Account) error {
	accountModel := mappers.ToGORMAccount(account)
	if err := r.DB.Create(accountModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultAccountRepository) GetAccount(userID string) (*domain.Account, error) {
	var accountModel models.AccountModel
	if err := r.DB.First(&accountModel, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
		}
		return nil, err
	}

	return mappers.ToDomainAccount(&accountModel), nil
}

// CreditBalance increments in place. Never read-then-write: several events
// can land on the same account at once.
func (r *DefaultAccountRepository) CreditBalance(userID string, delta float64) error {
	result := r.DB.Model(&models.AccountModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	return nil
}

// DebitBalance decrements with the sufficiency guard inside the same UPDATE.
func (r *DefaultAccountRepository) DebitBalance(userID string, amount float64) error {
	result := r.DB.Model(&models.AccountModel{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrInsufficientBalance, userID)
	}
	return nil
}

func (r *DefaultAccountRepository) FreezeBalance(userID, reason string, frozenAt time.Time) error {
	result := r.DB.Model(&models.AccountModel{}).
		Where("user_id = ? AND is_balance_frozen = ?", userID, false).
		Updates(map[string]interface{}{
			"is_balance_frozen":     true,
			"balance_frozen_at":     frozenAt,
			"balance_freeze_reason": reason,
			"is_suspicious":         true,
			"suspicious_reason":     reason,
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s already frozen", domain.ErrConflict, userID)
	}
	return nil
}

func (r *DefaultAccountRepository) UnfreezeBalance(userID string) error {
	result := r.DB.Model(&models.AccountModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_balance_frozen":     false,
			"balance_frozen_at":     nil,
			"balance_freeze_reason": "",
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	return nil
}

func (r *DefaultAccountRepository) UpdateKYCStatus(userID string, status domain.KYCStatus) error {
	result := r.DB.Model(&models.AccountModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"kyc_status": status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	return nil
}

func (r *DefaultAccountRepository) ListAccounts(offset, limit int) ([]*domain.Account, error) {
	var accountModels []models.AccountModel
	err := r.DB.
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&accountModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]*domain.Account, len(accountModels))
	for i, accountModel := range accountModels {
		accounts[i] = mappers.ToDomainAccount(&accountModel)
	}

	return accounts, nil
}
