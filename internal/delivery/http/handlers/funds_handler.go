package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/request"
	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/response"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/usecase/funds"
	"github.com/go-chi/chi/v5"
)

type FundsHandler struct {
	fundsUc funds.FundsUsecase
}

func NewFundsHandler(fundsUc funds.FundsUsecase) *FundsHandler {
	return &FundsHandler{fundsUc: fundsUc}
}

func (h *FundsHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.CreateFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	deposit, err := h.fundsUc.CreateDeposit(caller.UserID, body.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromDomainDeposit(deposit))
}

func (h *FundsHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.CreateFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	withdrawal, err := h.fundsUc.CreateWithdrawal(caller.UserID, body.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromDomainWithdrawal(withdrawal))
}

func (h *FundsHandler) ConfirmDeposit(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.fundsUc.ConfirmDeposit)
}

func (h *FundsHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.fundsUc.RejectDeposit)
}

func (h *FundsHandler) ConfirmWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.fundsUc.ConfirmWithdrawal)
}

func (h *FundsHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.fundsUc.RejectWithdrawal)
}

func (h *FundsHandler) review(w http.ResponseWriter, r *http.Request, fn func(id string, staff domain.Identity, note string) error) {
	staff, err := requireStaff(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.FundsReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	if err := fn(chi.URLParam(r, "id"), staff, body.Note); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
