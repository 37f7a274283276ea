package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/request"
	"github.com/Zoker94/escrow-room-service/internal/delivery/http/dto/response"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/usecase/dispute"
	"github.com/Zoker94/escrow-room-service/internal/usecase/transaction"
	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	txUc      transaction.TransactionUsecase
	disputeUc dispute.DisputeUsecase
}

func NewTransactionHandler(txUc transaction.TransactionUsecase, disputeUc dispute.DisputeUsecase) *TransactionHandler {
	return &TransactionHandler{txUc: txUc, disputeUc: disputeUc}
}

func (h *TransactionHandler) action(w http.ResponseWriter, r *http.Request, fn func(txID string, caller domain.Identity) error) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txID := chi.URLParam(r, "id")
	if err := fn(txID, caller); err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.txUc.GetTransactionByID(txID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDomainTransaction(tx, false))
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.txUc.Deposit)
}

func (h *TransactionHandler) Ship(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.txUc.MarkShipped)
}

func (h *TransactionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.txUc.Confirm)
}

func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.txUc.Cancel)
}

func (h *TransactionHandler) Dispute(w http.ResponseWriter, r *http.Request) {
	var body request.DisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	h.action(w, r, func(txID string, caller domain.Identity) error {
		return h.txUc.OpenDispute(txID, caller, body.Reason)
	})
}

func (h *TransactionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.resolution(w, r, h.disputeUc.Resolve)
}

func (h *TransactionHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.resolution(w, r, h.disputeUc.Refund)
}

func (h *TransactionHandler) resolution(w http.ResponseWriter, r *http.Request, fn func(txID string, staff domain.Identity, note string) error) {
	staff, err := requireStaff(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body request.ResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	txID := chi.URLParam(r, "id")
	if err := fn(txID, staff, body.Note); err != nil {
		writeError(w, err)
		return
	}

	tx, err := h.txUc.GetTransactionByID(txID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromDomainTransaction(tx, false))
}
