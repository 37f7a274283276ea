package room

import "github.com/Zoker94/escrow-room-service/internal/domain"

func (uc *DefaultRoomUsecase) GetRoomByID(roomID string) (*domain.Transaction, error) {
	return uc.txRepo.GetTransactionByRoomID(roomID)
}
