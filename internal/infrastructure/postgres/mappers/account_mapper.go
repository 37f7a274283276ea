package mappers

import (
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
)

func ToDomainAccount(model *models.AccountModel) *domain.Account {
	return &domain.Account{
		UserID:              model.UserID,
		Balance:             model.Balance,
		IsBalanceFrozen:     model.IsBalanceFrozen,
		BalanceFrozenAt:     model.BalanceFrozenAt,
		BalanceFreezeReason: model.BalanceFreezeReason,
		IsSuspicious:        model.IsSuspicious,
		SuspiciousReason:    model.SuspiciousReason,
		KYCStatus:           model.KYCStatus,
		ReputationScore:     model.ReputationScore,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

func ToGORMAccount(account *domain.Account) *models.AccountModel {
	return &models.AccountModel{
		UserID:              account.UserID,
		Balance:             account.Balance,
		IsBalanceFrozen:     account.IsBalanceFrozen,
		BalanceFrozenAt:     account.BalanceFrozenAt,
		BalanceFreezeReason: account.BalanceFreezeReason,
		IsSuspicious:        account.IsSuspicious,
		SuspiciousReason:    account.SuspiciousReason,
		KYCStatus:           account.KYCStatus,
		ReputationScore:     account.ReputationScore,
		CreatedAt:           account.CreatedAt,
		UpdatedAt:           account.UpdatedAt,
	}
}
