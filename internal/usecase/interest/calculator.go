package interest

import (
	"math/big"

	"brewlend-backend/internal/domain/order"
)

// SecondsPerYear is the annualization base for interest accrual.
const SecondsPerYear = 365 * 24 * 60 * 60

var basisPoints = big.NewInt(10_000)

// Breakdown is the exact repayment decomposition at one evaluation time.
// All fields are smallest-unit integers.
type Breakdown struct {
	Principal             *big.Int
	Interest              *big.Int
	PrincipalPlusInterest *big.Int
	PlatformFee           *big.Int
	TotalDue              *big.Int
}

// ComputeRepayment derives accrued interest, platform fee and total due for
// a funded order at nowSeconds. Pure: identical inputs always produce
// identical outputs. Division truncates toward zero, matching the contract:
//
//	interest = floor(principal * rateBps * elapsed / (10_000 * SecondsPerYear))
//	fee      = floor((principal + interest) * feeBps / 10_000)
//
// Calling this on an order that was never funded is a caller bug and fails
// fast with ErrNotFunded instead of reporting a misleading zero.
func ComputeRepayment(o *order.Order, nowSeconds int64, platformFeeBps uint64) (*Breakdown, error) {
	if o == nil || o.FundedAt <= 0 {
		return nil, order.ErrNotFunded
	}

	elapsed := nowSeconds - o.FundedAt
	if elapsed < 0 {
		elapsed = 0
	}

	principal := new(big.Int)
	if o.Principal != nil {
		principal.Set(o.Principal)
	}

	// principal * rateBps * elapsed may exceed 64 bits long before any
	// realistic principal does; big.Int keeps the intermediate exact.
	interest := new(big.Int).Set(principal)
	interest.Mul(interest, new(big.Int).SetUint64(o.InterestRateBps))
	interest.Mul(interest, big.NewInt(elapsed))
	interest.Quo(interest, new(big.Int).Mul(basisPoints, big.NewInt(SecondsPerYear)))

	withInterest := new(big.Int).Add(principal, interest)

	fee := new(big.Int).Set(withInterest)
	fee.Mul(fee, new(big.Int).SetUint64(platformFeeBps))
	fee.Quo(fee, basisPoints)

	total := new(big.Int).Add(withInterest, fee)

	return &Breakdown{
		Principal:             principal,
		Interest:              interest,
		PrincipalPlusInterest: withInterest,
		PlatformFee:           fee,
		TotalDue:              total,
	}, nil
}
