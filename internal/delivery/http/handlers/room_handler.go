package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/request"
	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/response"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/usecase/room"
	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomUc room.RoomUsecase
}

func NewRoomHandler(roomUc room.RoomUsecase) *RoomHandler {
	return &RoomHandler{roomUc: roomUc}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	tx, err := h.roomUc.CreateRoom(&room.CreateRoomInput{
		Initiator:   caller,
		Role:        domain.Role(body.Role),
		Category:    body.Category,
		ProductName: body.ProductName,
		Amount:      body.Amount,
		FeeBearer:   domain.FeeBearer(body.FeeBearer),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// The creator gets the password back; everyone else learns it out of band.
	writeJSON(w, http.StatusCreated, response.FromDomainTransaction(tx, true))
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	tx, err := h.roomUc.GetRoomByID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.FromDomainTransaction(tx, false))
}

func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	input := &room.JoinRoomInput{
		RoomID:   chi.URLParam(r, "roomID"),
		Password: body.Password,
		Caller:   caller,
		Role:     domain.Role(body.Role),
	}
	if body.Details != nil {
		input.Details = &room.SellerDetails{
			Category:    body.Details.Category,
			ProductName: body.Details.ProductName,
			Amount:      body.Details.Amount,
			FeeBearer:   domain.FeeBearer(body.Details.FeeBearer),
		}
	}

	tx, err := h.roomUc.JoinRoom(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.FromDomainTransaction(tx, false))
}
