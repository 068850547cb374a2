package order

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the lifecycle state of a loan order. The numeric values match
// the contract's enum and must not be reordered.
type Status uint8

const (
	StatusOpen Status = iota
	StatusFunded
	StatusRepaid
	StatusDefaulted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusFunded:
		return "funded"
	case StatusRepaid:
		return "repaid"
	case StatusDefaulted:
		return "defaulted"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return s == StatusRepaid || s == StatusDefaulted || s == StatusCancelled
}

// ParseStatus validates a raw contract status value.
func ParseStatus(v uint64) (Status, bool) {
	if v > uint64(StatusCancelled) {
		return 0, false
	}
	return Status(v), true
}

// CollateralRef identifies the tokenized asset backing an order.
type CollateralRef struct {
	Contract common.Address `json:"nftContract"`
	TokenID  uint64         `json:"tokenId"`
}

// Order is the canonical read-through projection of a contract-resident loan
// order. Amounts are smallest-unit integers (6 fractional digits) and stay
// *big.Int at every layer. The contract owns the authoritative copy.
type Order struct {
	OrderID           uint64
	Borrower          common.Address
	Lender            common.Address
	Collateral        CollateralRef
	Principal         *big.Int
	InterestRateBps   uint64
	DurationSeconds   uint64
	CreatedAt         int64
	FundedAt          int64
	RepaymentDeadline int64
	Status            Status
}

// Funded reports whether the order ever received funding.
func (o *Order) Funded() bool { return o.FundedAt > 0 }

// HasLender reports whether the lender field has left the unset sentinel.
func (o *Order) HasLender() bool { return o.Lender != (common.Address{}) }

// CanonicalAddress is the lower-cased hex form used for every ownership and
// role comparison.
func CanonicalAddress(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// Source labels where a read result came from. Callers must branch on it
// before presenting figures as authoritative.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)
