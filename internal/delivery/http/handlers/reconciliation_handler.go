package handlers

import (
	"net/http"

	"github.com/Zoker94/escrow-room-service/internal/usecase/reconciliation"
)

type ReconciliationHandler struct {
	engine *reconciliation.Engine
}

func NewReconciliationHandler(engine *reconciliation.Engine) *ReconciliationHandler {
	return &ReconciliationHandler{engine: engine}
}

func (h *ReconciliationHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if _, err := requireStaff(r); err != nil {
		writeError(w, err)
		return
	}

	report, err := h.engine.Scan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
