package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/request"
	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/response"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/usecase/account"
	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	accountUc account.AccountUsecase
}

func NewAccountHandler(accountUc account.AccountUsecase) *AccountHandler {
	return &AccountHandler{accountUc: accountUc}
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != caller.UserID && !caller.Capability.IsStaff() {
		writeError(w, fmt.Errorf("%w: cannot view another user's account", domain.ErrUnauthorized))
		return
	}

	acc, err := h.accountUc.GetOrCreateAccount(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDomainAccount(acc))
}

func (h *AccountHandler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != caller.UserID {
		writeError(w, fmt.Errorf("%w: cannot submit verification for another user", domain.ErrUnauthorized))
		return
	}

	if err := h.accountUc.SubmitKYC(userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AccountHandler) ReviewKYC(w http.ResponseWriter, r *http.Request) {
	staff, err := requireStaff(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.KYCReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.accountUc.ReviewKYC(userID, staff, body.Approved, body.Note); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AccountHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	staff, err := requireStaff(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.accountUc.AdjustBalance(userID, staff, body.Delta, body.Source, body.Note); err != nil {
		writeError(w, err)
		return
	}

	acc, err := h.accountUc.GetOrCreateAccount(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDomainAccount(acc))
}

func (h *AccountHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	staff, err := requireStaff(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.FreezeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.accountUc.Freeze(userID, staff, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AccountHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	staff, err := requireStaff(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.FreezeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.accountUc.Unfreeze(userID, staff, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
