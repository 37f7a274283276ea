package reconciliation_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/Zoker94/escrow-room-service/internal/testutil"
	"github.com/Zoker94/escrow-room-service/internal/usecase/reconciliation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewEscrowMetrics()

type engineFixture struct {
	engine   *reconciliation.Engine
	txRepo   *testutil.InMemoryTransactionRepo
	accounts *testutil.InMemoryAccountRepo
	funds    *testutil.InMemoryFundsRepo
	audit    *testutil.InMemoryAuditRepo
}

func newEngineFixture() *engineFixture {
	txRepo := testutil.NewInMemoryTransactionRepo()
	accounts := testutil.NewInMemoryAccountRepo()
	funds := testutil.NewInMemoryFundsRepo()
	audit := testutil.NewInMemoryAuditRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Reconciliation{
		DriftThreshold:        100000,
		HighSeverityThreshold: 1000000,
		UnexplainedThreshold:  500000,
		ScanPageSize:          100,
	}
	engine := reconciliation.NewEngine(
		accounts, txRepo, funds, audit, &testutil.RecordingPublisher{}, cfg, testMetrics, logger,
	)
	return &engineFixture{engine: engine, txRepo: txRepo, accounts: accounts, funds: funds, audit: audit}
}

func (f *engineFixture) completedDeposit(t *testing.T, userID string, amount float64) {
	t.Helper()
	require.NoError(t, f.funds.CreateDeposit(&domain.Deposit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    domain.FundsCompleted,
		CreatedAt: time.Now(),
	}))
}

func (f *engineFixture) completedSale(t *testing.T, sellerID string, amount, sellerReceives float64) {
	t.Helper()
	require.NoError(t, f.txRepo.CreateTransaction(&domain.Transaction{
		ID:             uuid.NewString(),
		RoomID:         uuid.NewString()[:8],
		Status:         domain.StatusCompleted,
		Amount:         amount,
		SellerReceives: sellerReceives,
		Slots:          domain.Slots{domain.RoleSeller: sellerID},
		CreatedAt:      time.Now(),
	}))
}

func (f *engineFixture) frozen(t *testing.T, userID string) bool {
	t.Helper()
	acc, err := f.accounts.GetAccount(userID)
	require.NoError(t, err)
	return acc.IsBalanceFrozen
}

func TestScan_CleanAccountNoAnomaly(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "user-1", 100000)
	f.completedSale(t, "user-1", 50000, 47500)
	f.accounts.Seed("user-1", 147500)

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 0, report.AnomaliesFound)
	assert.Equal(t, 0, report.AccountsFrozen)
	assert.False(t, f.frozen(t, "user-1"))
}

func TestScan_InflatedBalanceFreezes(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "user-1", 100000)
	f.completedSale(t, "user-1", 50000, 47500)
	f.accounts.Seed("user-1", 300000) // expected 147500, drift +152500

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, report.AnomaliesFound)
	anomaly := report.Anomalies[0]
	assert.Equal(t, reconciliation.AnomalyBalanceInflated, anomaly.Type)
	assert.Equal(t, reconciliation.SeverityMedium, anomaly.Severity)
	assert.Equal(t, float64(147500), anomaly.Expected)
	assert.Equal(t, float64(300000), anomaly.Actual)
	assert.Equal(t, float64(152500), anomaly.Difference)
	assert.True(t, anomaly.Frozen)

	assert.Equal(t, 1, report.AccountsFrozen)
	assert.True(t, f.frozen(t, "user-1"))

	// Freeze is audited and alerted.
	require.Len(t, f.audit.Actions, 1)
	assert.Equal(t, domain.ActionBalanceFreeze, f.audit.Actions[0].ActionType)
	require.Len(t, f.audit.Alerts, 1)
	assert.Equal(t, reconciliation.AnomalyBalanceInflated, f.audit.Alerts[0].AlertType)
}

func TestScan_MassiveInflationIsHighSeverity(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "user-1", 100000)
	f.accounts.Seed("user-1", 2000000)

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, report.Anomalies)
	assert.Equal(t, reconciliation.AnomalyBalanceInflated, report.Anomalies[0].Type)
	assert.Equal(t, reconciliation.SeverityHigh, report.Anomalies[0].Severity)
}

func TestScan_DeflationRecordedButNeverFrozen(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "user-1", 500000)
	f.accounts.Seed("user-1", 100000) // drift -400000

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, report.AnomaliesFound)
	assert.Equal(t, reconciliation.AnomalyBalanceDeflated, report.Anomalies[0].Type)
	assert.False(t, report.Anomalies[0].Frozen)
	assert.Equal(t, 0, report.AccountsFrozen)
	assert.False(t, f.frozen(t, "user-1"))

	// Recorded as an alert even without a freeze.
	require.Len(t, f.audit.Alerts, 1)
}

func TestScan_UnexplainedBalance(t *testing.T) {
	f := newEngineFixture()
	f.accounts.Seed("user-1", 600000) // no deposits, no sales

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	types := make(map[string]bool)
	for _, a := range report.Anomalies {
		types[a.Type] = true
	}
	assert.True(t, types[reconciliation.AnomalyUnexplainedBalance])
	assert.True(t, f.frozen(t, "user-1"))
}

func TestScan_UnknownSourceDeltas(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "user-1", 100000)
	f.accounts.Seed("user-1", 100000)

	require.NoError(t, f.audit.CreateActionLog(&domain.AdminActionLog{
		ID:           uuid.NewString(),
		ActorID:      "admin-x",
		TargetUserID: "user-1",
		ActionType:   domain.ActionBalanceAdjust,
		BalanceDelta: 25000,
		Source:       domain.SourceUnknown,
		CreatedAt:    time.Now(),
	}))

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	var found *reconciliation.Anomaly
	for _, a := range report.Anomalies {
		if a.Type == reconciliation.AnomalySuspiciousChange {
			found = a
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, reconciliation.SeverityHigh, found.Severity)
	assert.Equal(t, float64(25000), found.Difference)
	assert.True(t, f.frozen(t, "user-1"))
}

func TestScan_SkipsAlreadyFrozenAccounts(t *testing.T) {
	f := newEngineFixture()
	f.accounts.Seed("user-1", 900000)
	require.NoError(t, f.accounts.FreezeBalance("user-1", "prior incident", time.Now()))

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 0, report.AnomaliesFound)
}

func TestScan_PendingDealsDoNotCountAsSpending(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "buyer-1", 200000)
	f.accounts.Seed("buyer-1", 200000)

	// PENDING holds no funds, so the stored balance still matches.
	require.NoError(t, f.txRepo.CreateTransaction(&domain.Transaction{
		ID:        uuid.NewString(),
		RoomID:    "pendroom",
		Status:    domain.StatusPending,
		Amount:    150000,
		Slots:     domain.Slots{domain.RoleBuyer: "buyer-1"},
		CreatedAt: time.Now(),
	}))

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.AnomaliesFound)
}

func TestScan_ActiveBuyerSpendIsExpected(t *testing.T) {
	f := newEngineFixture()
	f.completedDeposit(t, "buyer-1", 200000)
	require.NoError(t, f.txRepo.CreateTransaction(&domain.Transaction{
		ID:        uuid.NewString(),
		RoomID:    "depsroom",
		Status:    domain.StatusDeposited,
		Amount:    150000,
		Slots:     domain.Slots{domain.RoleBuyer: "buyer-1"},
		CreatedAt: time.Now(),
	}))
	f.accounts.Seed("buyer-1", 50000)

	report, err := f.engine.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.AnomaliesFound)
}
