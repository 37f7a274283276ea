package dispute_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/metrics"
	"github.com/Zoker94/escrow-room-service/internal/testutil"
	"github.com/Zoker94/escrow-room-service/internal/usecase/dispute"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewEscrowMetrics()

type disputeFixture struct {
	uc       dispute.DisputeUsecase
	txRepo   *testutil.InMemoryTransactionRepo
	accounts *testutil.InMemoryAccountRepo
	audit    *testutil.InMemoryAuditRepo
}

func newDisputeFixture() *disputeFixture {
	txRepo := testutil.NewInMemoryTransactionRepo()
	accounts := testutil.NewInMemoryAccountRepo()
	audit := testutil.NewInMemoryAuditRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uc := dispute.NewDefaultDisputeUsecase(
		txRepo, accounts, audit, &testutil.RecordingPublisher{}, testMetrics, logger,
	)
	return &disputeFixture{uc: uc, txRepo: txRepo, accounts: accounts, audit: audit}
}

func disputedDeal(t *testing.T, f *disputeFixture, bearer domain.FeeBearer, sellerReceives float64) *domain.Transaction {
	t.Helper()
	now := time.Now()
	tx := &domain.Transaction{
		ID:             uuid.NewString(),
		RoomID:         "disproom",
		Status:         domain.StatusDisputed,
		Amount:         100000,
		FeePercent:     5,
		FeeAmount:      5000,
		SellerReceives: sellerReceives,
		FeeBearer:      bearer,
		Slots: domain.Slots{
			domain.RoleBuyer:  "buyer-1",
			domain.RoleSeller: "seller-1",
		},
		DisputeReason: "item not as described",
		DisputeAt:     &now,
		CreatedAt:     now,
	}
	require.NoError(t, f.txRepo.CreateTransaction(tx))
	f.accounts.Seed("buyer-1", 0)
	f.accounts.Seed("seller-1", 0)
	return tx
}

func moderator() domain.Identity {
	return domain.Identity{UserID: "mod-1", Capability: domain.CapabilityModerator}
}

func TestResolve_PaysSellerOnce(t *testing.T) {
	f := newDisputeFixture()
	tx := disputedDeal(t, f, domain.FeeBearerBuyer, 100000)

	require.NoError(t, f.uc.Resolve(tx.ID, moderator(), "evidence favours seller"))

	got, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	seller, err := f.accounts.GetAccount("seller-1")
	require.NoError(t, err)
	assert.Equal(t, float64(100000), seller.Balance)

	// Second resolution attempt of any kind bounces off the terminal status.
	require.ErrorIs(t, f.uc.Resolve(tx.ID, moderator(), "again"), domain.ErrConflict)
	require.ErrorIs(t, f.uc.Refund(tx.ID, moderator(), "again"), domain.ErrConflict)

	seller, err = f.accounts.GetAccount("seller-1")
	require.NoError(t, err)
	assert.Equal(t, float64(100000), seller.Balance)
}

func TestResolve_StaffOnly(t *testing.T) {
	f := newDisputeFixture()
	tx := disputedDeal(t, f, domain.FeeBearerBuyer, 100000)

	party := domain.Identity{UserID: "buyer-1", Capability: domain.CapabilityUser}
	require.ErrorIs(t, f.uc.Resolve(tx.ID, party, "self service"), domain.ErrUnauthorized)
	require.ErrorIs(t, f.uc.Refund(tx.ID, party, "self service"), domain.ErrUnauthorized)
}

func TestRefund_ReturnsAmountPlusBuyerFeeShare(t *testing.T) {
	cases := []struct {
		name   string
		bearer domain.FeeBearer
		want   float64
	}{
		{"buyer bears fee", domain.FeeBearerBuyer, 105000},
		{"seller bears fee", domain.FeeBearerSeller, 100000},
		{"split fee", domain.FeeBearerSplit, 102500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDisputeFixture()
			tx := disputedDeal(t, f, tc.bearer, 95000)

			require.NoError(t, f.uc.Refund(tx.ID, moderator(), "buyer is right"))

			got, err := f.txRepo.GetTransactionByID(tx.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusRefunded, got.Status)

			buyer, err := f.accounts.GetAccount("buyer-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, buyer.Balance)

			seller, err := f.accounts.GetAccount("seller-1")
			require.NoError(t, err)
			assert.Equal(t, float64(0), seller.Balance)
		})
	}
}

func TestResolve_RequiresDisputedStatus(t *testing.T) {
	f := newDisputeFixture()
	now := time.Now()
	tx := &domain.Transaction{
		ID:     uuid.NewString(),
		RoomID: "shiproom",
		Status: domain.StatusShipping,
		Slots: domain.Slots{
			domain.RoleBuyer:  "buyer-1",
			domain.RoleSeller: "seller-1",
		},
		CreatedAt: now,
	}
	require.NoError(t, f.txRepo.CreateTransaction(tx))

	require.ErrorIs(t, f.uc.Resolve(tx.ID, moderator(), "premature"), domain.ErrConflict)
}

func TestResolution_Audited(t *testing.T) {
	f := newDisputeFixture()
	tx := disputedDeal(t, f, domain.FeeBearerBuyer, 100000)

	require.NoError(t, f.uc.Resolve(tx.ID, moderator(), "done"))

	require.Len(t, f.audit.Actions, 1)
	entry := f.audit.Actions[0]
	assert.Equal(t, domain.ActionDisputeResolve, entry.ActionType)
	assert.Equal(t, "mod-1", entry.ActorID)
	assert.Equal(t, "seller-1", entry.TargetUserID)
	assert.Equal(t, float64(100000), entry.BalanceDelta)
	assert.Equal(t, domain.SourceTransaction, entry.Source)
}
