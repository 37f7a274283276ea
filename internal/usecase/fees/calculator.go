package fees

import (
	"fmt"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

// Breakdown is the fee split for one deal. SellerReceives + the seller-side
// fee share always equals Amount; BuyerTotal is what the buyer must be able
// to pay before claiming the buyer slot.
type Breakdown struct {
	Amount         float64 `json:"amount"`
	FeePercent     float64 `json:"fee_percent"`
	FeeAmount      float64 `json:"fee_amount"`
	SellerReceives float64 `json:"seller_receives"`
	BuyerTotal     float64 `json:"buyer_total"`
}

type Calculator struct {
	MinAmount float64
}

func NewCalculator(minAmount float64) *Calculator {
	return &Calculator{MinAmount: minAmount}
}

func (c *Calculator) Compute(amount, feePercent float64, bearer domain.FeeBearer) (*Breakdown, error) {
	if amount < c.MinAmount {
		return nil, fmt.Errorf("%w: amount %.2f below minimum %.2f", domain.ErrValidation, amount, c.MinAmount)
	}
	if feePercent < 0 || feePercent > 100 {
		return nil, fmt.Errorf("%w: fee percent %.2f out of range", domain.ErrValidation, feePercent)
	}

	feeAmount := amount * feePercent / 100

	breakdown := &Breakdown{
		Amount:     amount,
		FeePercent: feePercent,
		FeeAmount:  feeAmount,
	}

	switch bearer {
	case domain.FeeBearerSeller:
		breakdown.SellerReceives = amount - feeAmount
		breakdown.BuyerTotal = amount
	case domain.FeeBearerSplit:
		breakdown.SellerReceives = amount - feeAmount/2
		breakdown.BuyerTotal = amount + feeAmount/2
	case domain.FeeBearerBuyer:
		breakdown.SellerReceives = amount
		breakdown.BuyerTotal = amount + feeAmount
	default:
		return nil, fmt.Errorf("%w: unknown fee bearer %q", domain.ErrValidation, bearer)
	}

	return breakdown, nil
}

// BuyerShare is the fee share the buyer bore on a deal, used when a refund
// has to return it.
func BuyerShare(feeAmount float64, bearer domain.FeeBearer) float64 {
	switch bearer {
	case domain.FeeBearerBuyer:
		return feeAmount
	case domain.FeeBearerSplit:
		return feeAmount / 2
	default:
		return 0
	}
}
