package transaction_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/Zoker94/escrow-room-service/internal/testutil"
	"github.com/Zoker94/escrow-room-service/internal/usecase/transaction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewEscrowMetrics()

type txFixture struct {
	uc        transaction.TransactionUsecase
	txRepo    *testutil.InMemoryTransactionRepo
	accounts  *testutil.InMemoryAccountRepo
	audit     *testutil.InMemoryAuditRepo
	publisher *testutil.RecordingPublisher
}

func newTxFixture(platform config.Platform) *txFixture {
	txRepo := testutil.NewInMemoryTransactionRepo()
	accounts := testutil.NewInMemoryAccountRepo()
	audit := testutil.NewInMemoryAuditRepo()
	publisher := &testutil.RecordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uc := transaction.NewDefaultTransactionUsecase(
		txRepo, accounts, audit, publisher, platform, "", testMetrics, logger,
	)
	return &txFixture{uc: uc, txRepo: txRepo, accounts: accounts, audit: audit, publisher: publisher}
}

func defaultPlatform() config.Platform {
	return config.Platform{MinAmount: 1000, FeePercent: 5, PendingRoomTTL: 72 * time.Hour}
}

func buyer() domain.Identity {
	return domain.Identity{UserID: "buyer-1", Capability: domain.CapabilityUser}
}

func seller() domain.Identity {
	return domain.Identity{UserID: "seller-1", Capability: domain.CapabilityUser}
}

func admin() domain.Identity {
	return domain.Identity{UserID: "admin-1", Capability: domain.CapabilityAdmin}
}

// seedDeal creates a fully staffed buyer-pays-fee deal for 100000 in the
// given status, with the buyer funded to cover the payable.
func seedDeal(t *testing.T, f *txFixture, status domain.TransactionStatus) *domain.Transaction {
	t.Helper()
	now := time.Now()
	tx := &domain.Transaction{
		ID:             uuid.NewString(),
		Code:           "ESC-test",
		RoomID:         "roomtest",
		RoomPassword:   "123456",
		Status:         status,
		Amount:         100000,
		FeePercent:     5,
		FeeAmount:      5000,
		SellerReceives: 100000,
		FeeBearer:      domain.FeeBearerBuyer,
		Slots: domain.Slots{
			domain.RoleBuyer:  "buyer-1",
			domain.RoleSeller: "seller-1",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.txRepo.CreateTransaction(tx))
	f.accounts.Seed("buyer-1", 105000)
	f.accounts.Seed("seller-1", 0)
	return tx
}

func balance(t *testing.T, f *txFixture, userID string) float64 {
	t.Helper()
	acc, err := f.accounts.GetAccount(userID)
	require.NoError(t, err)
	return acc.Balance
}

func TestDeposit_DebitsBuyerPayable(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusPending)

	require.NoError(t, f.uc.Deposit(tx.ID, buyer()))

	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeposited, got.Status)
	assert.Equal(t, float64(0), balance(t, f, "buyer-1"))

	// Second call is a no-op, not a second debit.
	require.NoError(t, f.uc.Deposit(tx.ID, buyer()))
	assert.Equal(t, float64(0), balance(t, f, "buyer-1"))
}

func TestDeposit_OnlyBuyer(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusPending)

	err := f.uc.Deposit(tx.ID, seller())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDeposit_InsufficientBalanceLeavesPending(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusPending)
	require.NoError(t, f.accounts.DebitBalance("buyer-1", 105000)) // drain

	err := f.uc.Deposit(tx.ID, buyer())
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	// Retry succeeds after funding.
	require.NoError(t, f.accounts.CreditBalance("buyer-1", 105000))
	require.NoError(t, f.uc.Deposit(tx.ID, buyer()))
}

// hookedAccountRepo lets a test interleave another operation with the debit.
type hookedAccountRepo struct {
	*testutil.InMemoryAccountRepo
	beforeDebit func()
	afterDebit  func()
}

func (r *hookedAccountRepo) DebitBalance(userID string, amount float64) error {
	if r.beforeDebit != nil {
		r.beforeDebit()
	}
	err := r.InMemoryAccountRepo.DebitBalance(userID, amount)
	if err == nil && r.afterDebit != nil {
		r.afterDebit()
	}
	return err
}

func newHookedTxFixture(platform config.Platform) (*txFixture, *hookedAccountRepo) {
	txRepo := testutil.NewInMemoryTransactionRepo()
	accounts := testutil.NewInMemoryAccountRepo()
	hooked := &hookedAccountRepo{InMemoryAccountRepo: accounts}
	audit := testutil.NewInMemoryAuditRepo()
	publisher := &testutil.RecordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uc := transaction.NewDefaultTransactionUsecase(
		txRepo, hooked, audit, publisher, platform, "", testMetrics, logger,
	)
	return &txFixture{uc: uc, txRepo: txRepo, accounts: accounts, audit: audit, publisher: publisher}, hooked
}

func TestDeposit_UnfundedDealCannotShip(t *testing.T) {
	f, hooked := newHookedTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusPending)
	require.NoError(t, f.accounts.DebitBalance("buyer-1", 105000)) // drain

	// The seller tries to ship while the buyer's debit is still in flight.
	var shipErr error
	hooked.beforeDebit = func() {
		shipErr = f.uc.MarkShipped(tx.ID, seller())
	}

	require.ErrorIs(t, f.uc.Deposit(tx.ID, buyer()), domain.ErrInsufficientBalance)
	require.ErrorIs(t, shipErr, domain.ErrConflict)

	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, float64(0), balance(t, f, "seller-1"))
}

func TestDeposit_LostTransitionRefundsBuyer(t *testing.T) {
	f, hooked := newHookedTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusPending)

	// The deal is cancelled between the debit and the status transition.
	hooked.afterDebit = func() {
		require.NoError(t, f.txRepo.UpdateTransactionStatus(tx.ID, domain.StatusPending, domain.StatusCancelled))
	}

	require.ErrorIs(t, f.uc.Deposit(tx.ID, buyer()), domain.ErrConflict)

	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, float64(105000), balance(t, f, "buyer-1"))
}

func TestMarkShipped_SellerOnlyFromDeposited(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusDeposited)

	require.ErrorIs(t, f.uc.MarkShipped(tx.ID, buyer()), domain.ErrUnauthorized)
	require.NoError(t, f.uc.MarkShipped(tx.ID, seller()))

	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipping, got.Status)
}

func TestConfirm_BothPartiesCompleteAndPaySeller(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusShipping)

	require.NoError(t, f.uc.Confirm(tx.ID, buyer()))
	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipping, got.Status)
	assert.Equal(t, float64(0), balance(t, f, "seller-1"))

	require.NoError(t, f.uc.Confirm(tx.ID, seller()))
	got, err = f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, float64(100000), balance(t, f, "seller-1"))

	// Re-confirming a finished deal pays nothing twice.
	require.NoError(t, f.uc.Confirm(tx.ID, buyer()))
	assert.Equal(t, float64(100000), balance(t, f, "seller-1"))
}

func TestConfirm_StaffOverride(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusDeposited)

	require.NoError(t, f.uc.Confirm(tx.ID, admin()))

	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, float64(100000), balance(t, f, "seller-1"))
}

func TestConfirm_OutsiderRejected(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusDeposited)

	outsider := domain.Identity{UserID: "rando", Capability: domain.CapabilityUser}
	require.ErrorIs(t, f.uc.Confirm(tx.ID, outsider), domain.ErrUnauthorized)
}

func TestCancel_OnlyFromPending(t *testing.T) {
	f := newTxFixture(defaultPlatform())

	pending := seedDeal(t, f, domain.StatusPending)
	require.NoError(t, f.uc.Cancel(pending.ID, buyer()))
	got, err := f.uc.GetTransactionByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	f2 := newTxFixture(defaultPlatform())
	deposited := seedDeal(t, f2, domain.StatusDeposited)
	require.ErrorIs(t, f2.uc.Cancel(deposited.ID, buyer()), domain.ErrConflict)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, terminal := range []domain.TransactionStatus{
		domain.StatusCompleted, domain.StatusCancelled, domain.StatusRefunded,
	} {
		t.Run(string(terminal), func(t *testing.T) {
			f := newTxFixture(defaultPlatform())
			tx := seedDeal(t, f, terminal)

			if terminal != domain.StatusCancelled {
				require.ErrorIs(t, f.uc.Cancel(tx.ID, buyer()), domain.ErrConflict)
			}
			require.ErrorIs(t, f.uc.MarkShipped(tx.ID, seller()), domain.ErrConflict)
			require.ErrorIs(t, f.uc.OpenDispute(tx.ID, buyer(), "broken"), domain.ErrConflict)
			if terminal != domain.StatusCompleted {
				require.ErrorIs(t, f.uc.Confirm(tx.ID, buyer()), domain.ErrConflict)
			}
		})
	}
}

func TestOpenDispute_RequiresReasonAndParty(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusDeposited)

	require.ErrorIs(t, f.uc.OpenDispute(tx.ID, buyer(), ""), domain.ErrValidation)

	outsider := domain.Identity{UserID: "rando", Capability: domain.CapabilityUser}
	require.ErrorIs(t, f.uc.OpenDispute(tx.ID, outsider, "broken"), domain.ErrUnauthorized)

	require.NoError(t, f.uc.OpenDispute(tx.ID, buyer(), "item never arrived"))
	got, err := f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisputed, got.Status)
	assert.Equal(t, "item never arrived", got.DisputeReason)
	assert.NotNil(t, got.DisputeAt)

	// Idempotent while already disputed.
	require.NoError(t, f.uc.OpenDispute(tx.ID, seller(), "counter claim"))
	got, err = f.uc.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "item never arrived", got.DisputeReason)
}

func TestOpenDispute_PendingGate(t *testing.T) {
	f := newTxFixture(defaultPlatform())
	tx := seedDeal(t, f, domain.StatusPending)
	require.ErrorIs(t, f.uc.OpenDispute(tx.ID, buyer(), "cold feet"), domain.ErrConflict)

	lenient := defaultPlatform()
	lenient.AllowDisputeBeforePayment = true
	f2 := newTxFixture(lenient)
	tx2 := seedDeal(t, f2, domain.StatusPending)
	require.NoError(t, f2.uc.OpenDispute(tx2.ID, buyer(), "cold feet"))
}

func TestCancelExpired_SweepsOldPendingOnly(t *testing.T) {
	f := newTxFixture(defaultPlatform())

	fresh := &domain.Transaction{
		ID:        uuid.NewString(),
		RoomID:    "freshroo",
		Status:    domain.StatusPending,
		Slots:     domain.Slots{},
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.txRepo.CreateTransaction(fresh))

	aged := &domain.Transaction{
		ID:        uuid.NewString(),
		RoomID:    "agedroom",
		Status:    domain.StatusPending,
		Slots:     domain.Slots{},
		CreatedAt: time.Now().Add(-100 * time.Hour),
	}
	require.NoError(t, f.txRepo.CreateTransaction(aged))

	require.NoError(t, f.uc.CancelExpired())

	got, err := f.uc.GetTransactionByID(aged.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	got, err = f.uc.GetTransactionByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}
