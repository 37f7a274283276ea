package fees

import (
	"testing"

	"github.com/Zoker94/escrow-room-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_SellerInitiatedBuyerPaysFee(t *testing.T) {
	calc := NewCalculator(1000)

	b, err := calc.Compute(100000, 5, domain.FeeBearerBuyer)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, b.FeeAmount)
	assert.Equal(t, 100000.0, b.SellerReceives)
	assert.Equal(t, 105000.0, b.BuyerTotal)
}

func TestCompute_SplitFee(t *testing.T) {
	calc := NewCalculator(1000)

	b, err := calc.Compute(100000, 5, domain.FeeBearerSplit)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, b.FeeAmount)
	assert.Equal(t, 97500.0, b.SellerReceives)
	assert.Equal(t, 102500.0, b.BuyerTotal)
}

func TestCompute_Invariants(t *testing.T) {
	calc := NewCalculator(1000)

	amounts := []float64{1000, 5432, 100000, 987654}
	percents := []float64{0, 1, 2.5, 5, 10}

	for _, amount := range amounts {
		for _, percent := range percents {
			seller, err := calc.Compute(amount, percent, domain.FeeBearerSeller)
			require.NoError(t, err)
			assert.InDelta(t, amount, seller.SellerReceives+seller.FeeAmount, 1e-9)
			assert.Equal(t, amount, seller.BuyerTotal)

			split, err := calc.Compute(amount, percent, domain.FeeBearerSplit)
			require.NoError(t, err)
			assert.InDelta(t, amount, split.SellerReceives+split.FeeAmount/2, 1e-9)
			assert.InDelta(t, amount+split.FeeAmount/2, split.BuyerTotal, 1e-9)

			buyer, err := calc.Compute(amount, percent, domain.FeeBearerBuyer)
			require.NoError(t, err)
			assert.Equal(t, amount, buyer.SellerReceives)
			assert.InDelta(t, amount+buyer.FeeAmount, buyer.BuyerTotal, 1e-9)
		}
	}
}

func TestCompute_RejectsBelowMinimum(t *testing.T) {
	calc := NewCalculator(1000)

	_, err := calc.Compute(999, 5, domain.FeeBearerSeller)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompute_RejectsUnknownBearer(t *testing.T) {
	calc := NewCalculator(1000)

	_, err := calc.Compute(5000, 5, domain.FeeBearer("NOBODY"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBuyerShare(t *testing.T) {
	assert.Equal(t, 5000.0, BuyerShare(5000, domain.FeeBearerBuyer))
	assert.Equal(t, 2500.0, BuyerShare(5000, domain.FeeBearerSplit))
	assert.Equal(t, 0.0, BuyerShare(5000, domain.FeeBearerSeller))
}
