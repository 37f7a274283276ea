package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics covers rooms, lifecycle transitions, disputes and the
// reconciliation engine.
type EscrowMetrics struct {
	RoomsCreatedTotal prometheus.CounterVec
	RoomsJoinedTotal  prometheus.CounterVec
	JoinConflictsTotal prometheus.CounterVec

	TransitionsTotal       prometheus.CounterVec
	TransactionsAmountTotal prometheus.CounterVec

	DisputesOpenedTotal   prometheus.CounterVec
	DisputesResolvedTotal prometheus.CounterVec

	ReconciliationScansTotal     prometheus.Counter
	ReconciliationAnomaliesTotal prometheus.CounterVec
	ReconciliationFrozenTotal    prometheus.Counter
	ReconciliationScanDuration   prometheus.Histogram
}

func NewEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		RoomsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_rooms_created_total",
				Help: "Rooms created, by initiator role and fee bearer",
			},
			[]string{"initiator_role", "fee_bearer"},
		),

		RoomsJoinedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_rooms_joined_total",
				Help: "Successful slot assignments, by role",
			},
			[]string{"role"},
		),

		JoinConflictsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_join_conflicts_total",
				Help: "Join attempts lost to a slot race or a full room",
			},
			[]string{"role"},
		),

		TransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transitions_total",
				Help: "Status transitions applied",
			},
			[]string{"from", "to"},
		),

		TransactionsAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_amount_total",
				Help: "Deal amounts reaching a terminal status",
			},
			[]string{"status"},
		),

		DisputesOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_opened_total",
				Help: "Disputes raised, by raiser role",
			},
			[]string{"raised_by"},
		),

		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_resolved_total",
				Help: "Staff dispute resolutions, by outcome",
			},
			[]string{"outcome"},
		),

		ReconciliationScansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_reconciliation_scans_total",
				Help: "Completed reconciliation scans",
			},
		),

		ReconciliationAnomaliesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_reconciliation_anomalies_total",
				Help: "Anomalies detected, by type and severity",
			},
			[]string{"type", "severity"},
		),

		ReconciliationFrozenTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_reconciliation_frozen_total",
				Help: "Accounts auto-frozen by the reconciliation engine",
			},
		),

		ReconciliationScanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "escrow_reconciliation_scan_duration_seconds",
				Help:    "Full-scan duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
	}
}
