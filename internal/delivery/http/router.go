package http

import (
	"net/http"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/delivery/http/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Room           *handlers.RoomHandler
	Transaction    *handlers.TransactionHandler
	Funds          *handlers.FundsHandler
	Account        *handlers.AccountHandler
	Reconciliation *handlers.ReconciliationHandler
}

// NewRouter assembles the API surface. Identity arrives via the
// X-User-ID/X-User-Role headers set by the gateway in front of this service.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.Room.CreateRoom)
		r.Get("/{roomID}", h.Room.GetRoom)
		r.Post("/{roomID}/join", h.Room.JoinRoom)
	})

	r.Route("/transactions/{id}", func(r chi.Router) {
		r.Post("/deposit", h.Transaction.Deposit)
		r.Post("/ship", h.Transaction.Ship)
		r.Post("/confirm", h.Transaction.Confirm)
		r.Post("/cancel", h.Transaction.Cancel)
		r.Post("/dispute", h.Transaction.Dispute)
	})

	r.Route("/funds", func(r chi.Router) {
		r.Post("/deposits", h.Funds.CreateDeposit)
		r.Post("/deposits/{id}/confirm", h.Funds.ConfirmDeposit)
		r.Post("/deposits/{id}/reject", h.Funds.RejectDeposit)
		r.Post("/withdrawals", h.Funds.CreateWithdrawal)
		r.Post("/withdrawals/{id}/confirm", h.Funds.ConfirmWithdrawal)
		r.Post("/withdrawals/{id}/reject", h.Funds.RejectWithdrawal)
	})

	r.Route("/accounts/{userID}", func(r chi.Router) {
		r.Get("/", h.Account.GetAccount)
		r.Post("/kyc", h.Account.SubmitKYC)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/transactions/{id}/resolve", h.Transaction.Resolve)
		r.Post("/transactions/{id}/refund", h.Transaction.Refund)
		r.Post("/accounts/{userID}/kyc-review", h.Account.ReviewKYC)
		r.Post("/accounts/{userID}/adjust", h.Account.AdjustBalance)
		r.Post("/accounts/{userID}/freeze", h.Account.Freeze)
		r.Post("/accounts/{userID}/unfreeze", h.Account.Unfreeze)
		r.Post("/reconciliation/scan", h.Reconciliation.Scan)
	})

	return r
}
