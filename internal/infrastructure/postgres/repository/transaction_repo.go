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

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

var slotColumns = map[domain.Role]string{
	domain.RoleBuyer:     "buyer_id",
	domain.RoleSeller:    "seller_id",
	domain.RoleModerator: "moderator_id",
	domain.RoleArbiter:   "arbiter_id",
}

func (r *DefaultTransactionRepository) CreateTransaction(tx *domain.Transaction) error {
	txModel := mappers.ToGORMTransaction(tx)
	if err := r.DB.Create(txModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultTransactionRepository) GetTransactionByID(txID string) (*domain.Transaction, error) {
	var txModel models.TransactionModel
	if err := r.DB.First(&txModel, "id = ?", txID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
		}
		return nil, err
	}

	return mappers.ToDomainTransaction(&txModel), nil
}

func (r *DefaultTransactionRepository) GetTransactionByRoomID(roomID string) (*domain.Transaction, error) {
	var txModel models.TransactionModel
	if err := r.DB.First(&txModel, "room_id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, roomID)
		}
		return nil, err
	}

	return mappers.ToDomainTransaction(&txModel), nil
}

// AssignSlot claims the slot only while its column is still NULL. The single
// conditional UPDATE is what guarantees at-most-one winner under concurrent
// joins; a loser sees zero affected rows.
func (r *DefaultTransactionRepository) AssignSlot(txID string, role domain.Role, userID string) error {
	column, ok := slotColumns[role]
	if !ok {
		return fmt.Errorf("%w: unknown slot %q", domain.ErrValidation, role)
	}

	result := r.DB.Model(&models.TransactionModel{}).
		Where(fmt.Sprintf("id = ? AND %s IS NULL", column), txID).
		Updates(map[string]interface{}{
			column:       userID,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: slot %s already taken", domain.ErrConflict, role)
	}
	return nil
}

// UpdateTransactionStatus performs the guarded transition as one conditional
// UPDATE, so a terminal or concurrently-moved transaction cannot be moved twice.
func (r *DefaultTransactionRepository) UpdateTransactionStatus(txID string, oldStatus, newStatus domain.TransactionStatus) error {
	result := r.DB.Model(&models.TransactionModel{}).
		Where("id = ? AND status = ?", txID, oldStatus).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: transaction %s is no longer %s", domain.ErrConflict, txID, oldStatus)
	}
	return nil
}

func (r *DefaultTransactionRepository) UpdateTransactionDetails(txID string, details *domain.TransactionDetails) error {
	return r.DB.Model(&models.TransactionModel{}).
		Where("id = ?", txID).
		Updates(map[string]interface{}{
			"category":        details.Category,
			"product_name":    details.ProductName,
			"amount":          details.Amount,
			"fee_percent":     details.FeePercent,
			"fee_amount":      details.FeeAmount,
			"seller_receives": details.SellerReceives,
			"fee_bearer":      string(details.FeeBearer),
			"updated_at":      time.Now(),
		}).Error
}

func (r *DefaultTransactionRepository) SetConfirmation(txID string, role domain.Role) error {
	var column string
	switch role {
	case domain.RoleBuyer:
		column = "buyer_confirmed"
	case domain.RoleSeller:
		column = "seller_confirmed"
	default:
		return fmt.Errorf("%w: role %q cannot confirm", domain.ErrValidation, role)
	}

	return r.DB.Model(&models.TransactionModel{}).
		Where("id = ?", txID).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": time.Now(),
		}).Error
}

func (r *DefaultTransactionRepository) SetDispute(txID string, reason string, disputedAt time.Time) error {
	return r.DB.Model(&models.TransactionModel{}).
		Where("id = ?", txID).
		Updates(map[string]interface{}{
			"dispute_reason": reason,
			"dispute_at":     disputedAt,
			"updated_at":     time.Now(),
		}).Error
}

func (r *DefaultTransactionRepository) SetCompletedAt(txID string, completedAt time.Time) error {
	return r.DB.Model(&models.TransactionModel{}).
		Where("id = ?", txID).
		Updates(map[string]interface{}{
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		}).Error
}

func (r *DefaultTransactionRepository) FindUserTransactions(userID string, role domain.Role, statuses []domain.TransactionStatus) ([]*domain.Transaction, error) {
	column, ok := slotColumns[role]
	if !ok {
		return nil, fmt.Errorf("%w: unknown slot %q", domain.ErrValidation, role)
	}

	query := r.DB.Where(fmt.Sprintf("%s = ?", column), userID)
	if len(statuses) > 0 {
		query = query.Where("status IN (?)", statuses)
	}

	var txModels []models.TransactionModel
	if err := query.Find(&txModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}

	transactions := make([]*domain.Transaction, len(txModels))
	for i, txModel := range txModels {
		transactions[i] = mappers.ToDomainTransaction(&txModel)
	}

	return transactions, nil
}

func (r *DefaultTransactionRepository) FindExpiredPending(olderThan time.Time) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	err := r.DB.
		Where("status = ? AND created_at < ?", domain.StatusPending, olderThan).
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, len(txModels))
	for i, txModel := range txModels {
		transactions[i] = mappers.ToDomainTransaction(&txModel)
	}

	return transactions, nil
}
