package mappers

import (
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
)

func ToDomainDeposit(model *models.DepositModel) *domain.Deposit {
	return &domain.Deposit{
		ID:        model.ID,
		UserID:    model.UserID,
		Amount:    model.Amount,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMDeposit(deposit *domain.Deposit) *models.DepositModel {
	return &models.DepositModel{
		ID:        deposit.ID,
		UserID:    deposit.UserID,
		Amount:    deposit.Amount,
		Status:    deposit.Status,
		CreatedAt: deposit.CreatedAt,
		UpdatedAt: deposit.UpdatedAt,
	}
}

func ToDomainWithdrawal(model *models.WithdrawalModel) *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:        model.ID,
		UserID:    model.UserID,
		Amount:    model.Amount,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMWithdrawal(withdrawal *domain.Withdrawal) *models.WithdrawalModel {
	return &models.WithdrawalModel{
		ID:        withdrawal.ID,
		UserID:    withdrawal.UserID,
		Amount:    withdrawal.Amount,
		Status:    withdrawal.Status,
		CreatedAt: withdrawal.CreatedAt,
		UpdatedAt: withdrawal.UpdatedAt,
	}
}
