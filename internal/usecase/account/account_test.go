package account_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/Zoker94/escrow-room-service/internal/testutil"
	"github.com/Zoker94/escrow-room-service/internal/usecase/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	uc       account.AccountUsecase
	accounts *testutil.InMemoryAccountRepo
	audit    *testutil.InMemoryAuditRepo
}

func newAccountFixture() *accountFixture {
	accounts := testutil.NewInMemoryAccountRepo()
	audit := testutil.NewInMemoryAuditRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uc := account.NewDefaultAccountUsecase(accounts, audit, &testutil.RecordingPublisher{}, logger)
	return &accountFixture{uc: uc, accounts: accounts, audit: audit}
}

func adminID() domain.Identity {
	return domain.Identity{UserID: "admin-1", Capability: domain.CapabilityAdmin}
}

func TestGetOrCreateAccount_Bootstraps(t *testing.T) {
	f := newAccountFixture()

	acc, err := f.uc.GetOrCreateAccount("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", acc.UserID)
	assert.Equal(t, float64(0), acc.Balance)
	assert.Equal(t, domain.KYCNone, acc.KYCStatus)

	again, err := f.uc.GetOrCreateAccount("user-1")
	require.NoError(t, err)
	assert.Equal(t, acc.UserID, again.UserID)
}

func TestKYCFlow(t *testing.T) {
	f := newAccountFixture()
	_, err := f.uc.GetOrCreateAccount("user-1")
	require.NoError(t, err)

	// Nothing pending to review yet.
	require.ErrorIs(t, f.uc.ReviewKYC("user-1", adminID(), true, ""), domain.ErrConflict)

	require.NoError(t, f.uc.SubmitKYC("user-1"))
	require.ErrorIs(t, f.uc.SubmitKYC("user-1"), domain.ErrConflict)

	require.NoError(t, f.uc.ReviewKYC("user-1", adminID(), true, "documents fine"))
	acc, err := f.accounts.GetAccount("user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.KYCApproved, acc.KYCStatus)

	require.ErrorIs(t, f.uc.SubmitKYC("user-1"), domain.ErrConflict)
}

func TestAdjustBalance_SourcelessLandsAsUnknown(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Seed("user-1", 0)

	require.NoError(t, f.uc.AdjustBalance("user-1", adminID(), 30000, "", "migration correction"))

	acc, err := f.accounts.GetAccount("user-1")
	require.NoError(t, err)
	assert.Equal(t, float64(30000), acc.Balance)

	require.Len(t, f.audit.Actions, 1)
	assert.Equal(t, domain.SourceUnknown, f.audit.Actions[0].Source)

	total, err := f.audit.SumUnknownSourceDeltas("user-1")
	require.NoError(t, err)
	assert.Equal(t, float64(30000), total)
}

func TestAdjustBalance_Validation(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Seed("user-1", 1000)

	require.ErrorIs(t, f.uc.AdjustBalance("user-1", adminID(), 0, domain.SourceManual, ""), domain.ErrValidation)

	user := domain.Identity{UserID: "user-2", Capability: domain.CapabilityUser}
	require.ErrorIs(t, f.uc.AdjustBalance("user-1", user, 100, domain.SourceManual, ""), domain.ErrUnauthorized)

	require.ErrorIs(t, f.uc.AdjustBalance("user-1", adminID(), -5000, domain.SourceManual, ""), domain.ErrInsufficientBalance)
}

func TestFreezeUnfreeze(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Seed("user-1", 1000)

	require.ErrorIs(t, f.uc.Freeze("user-1", adminID(), ""), domain.ErrValidation)
	require.NoError(t, f.uc.Freeze("user-1", adminID(), "manual review"))

	acc, err := f.accounts.GetAccount("user-1")
	require.NoError(t, err)
	assert.True(t, acc.IsBalanceFrozen)
	assert.Equal(t, "manual review", acc.BalanceFreezeReason)
	require.NotNil(t, acc.BalanceFrozenAt)
	assert.WithinDuration(t, time.Now(), *acc.BalanceFrozenAt, time.Minute)

	// Double freeze is rejected, not silently repeated.
	require.ErrorIs(t, f.uc.Freeze("user-1", adminID(), "again"), domain.ErrConflict)

	require.NoError(t, f.uc.Unfreeze("user-1", adminID(), "cleared"))
	acc, err = f.accounts.GetAccount("user-1")
	require.NoError(t, err)
	assert.False(t, acc.IsBalanceFrozen)
	assert.Nil(t, acc.BalanceFrozenAt)
}
