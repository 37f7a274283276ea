package mappers

import (
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	slots := domain.Slots{}
	if model.BuyerID != nil {
		slots[domain.RoleBuyer] = *model.BuyerID
	}
	if model.SellerID != nil {
		slots[domain.RoleSeller] = *model.SellerID
	}
	if model.ModeratorID != nil {
		slots[domain.RoleModerator] = *model.ModeratorID
	}
	if model.ArbiterID != nil {
		slots[domain.RoleArbiter] = *model.ArbiterID
	}

	return &domain.Transaction{
		ID:              model.ID,
		Code:            model.Code,
		RoomID:          model.RoomID,
		RoomPassword:    model.RoomPassword,
		Status:          model.Status,
		Category:        model.Category,
		ProductName:     model.ProductName,
		Amount:          model.Amount,
		FeePercent:      model.FeePercent,
		FeeAmount:       model.FeeAmount,
		SellerReceives:  model.SellerReceives,
		FeeBearer:       domain.FeeBearer(model.FeeBearer),
		Slots:           slots,
		BuyerConfirmed:  model.BuyerConfirmed,
		SellerConfirmed: model.SellerConfirmed,
		DisputeReason:   model.DisputeReason,
		DisputeAt:       model.DisputeAt,
		CompletedAt:     model.CompletedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:              tx.ID,
		Code:            tx.Code,
		RoomID:          tx.RoomID,
		RoomPassword:    tx.RoomPassword,
		Status:          tx.Status,
		Category:        tx.Category,
		ProductName:     tx.ProductName,
		Amount:          tx.Amount,
		FeePercent:      tx.FeePercent,
		FeeAmount:       tx.FeeAmount,
		SellerReceives:  tx.SellerReceives,
		FeeBearer:       string(tx.FeeBearer),
		BuyerID:         slotPtr(tx.Slots, domain.RoleBuyer),
		SellerID:        slotPtr(tx.Slots, domain.RoleSeller),
		ModeratorID:     slotPtr(tx.Slots, domain.RoleModerator),
		ArbiterID:       slotPtr(tx.Slots, domain.RoleArbiter),
		BuyerConfirmed:  tx.BuyerConfirmed,
		SellerConfirmed: tx.SellerConfirmed,
		DisputeReason:   tx.DisputeReason,
		DisputeAt:       tx.DisputeAt,
		CompletedAt:     tx.CompletedAt,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func slotPtr(slots domain.Slots, role domain.Role) *string {
	if slots.Vacant(role) {
		return nil
	}
	occupant := slots.Occupant(role)
	return &occupant
}
