package node

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/pkg/numeric"
)

// Deterministic placeholders served when the node is unreachable. They keep
// development and demo environments exercisable; provenance labeling is what
// stops them from being mistaken for live figures.

const (
	placeholderFeeBps = 100
	// Fixed epoch so the placeholder set is identical across runs.
	placeholderEpoch = int64(1685123456)
)

type role int

const (
	roleBorrower role = iota
	roleLender
)

const placeholderLender = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"

var (
	placeholderBorrowers = []string{
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		"0x90F79bf6EB2c4f870365E785982E1f101E93b906",
	}
	placeholderCollateral = []string{
		"0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"0x5FbDB2315678afecb367f032d93F642f64180aa3",
	}
	placeholderPrincipals = []int64{1_000_000_000, 2_000_000_000, 3_000_000_000}
	placeholderRates      = []uint64{500, 700, 600}
	placeholderDurations  = []uint64{2_592_000, 5_184_000, 7_776_000}
	placeholderAges       = []int64{86_400, 43_200, 21_600}
)

// placeholderOpenOrders is the catalog substituted for bulk listings.
func placeholderOpenOrders() []order.Order {
	out := make([]order.Order, len(placeholderBorrowers))
	for i := range out {
		out[i] = order.Order{
			OrderID:  uint64(i + 1),
			Borrower: common.HexToAddress(placeholderBorrowers[i]),
			Collateral: order.CollateralRef{
				Contract: common.HexToAddress(placeholderCollateral[i]),
				TokenID:  uint64(i + 1),
			},
			Principal:       big.NewInt(placeholderPrincipals[i]),
			InterestRateBps: placeholderRates[i],
			DurationSeconds: placeholderDurations[i],
			CreatedAt:       placeholderEpoch - placeholderAges[i],
			Status:          order.StatusOpen,
		}
	}
	return out
}

// placeholderOrdersFor stamps the requested address into the catalog so a
// "my orders" view stays coherent while degraded.
func placeholderOrdersFor(addr common.Address, r role) []order.Order {
	out := placeholderOpenOrders()[:1]
	switch r {
	case roleBorrower:
		out[0].Borrower = addr
	case roleLender:
		out[0].Lender = addr
		out[0].Status = order.StatusFunded
		out[0].FundedAt = out[0].CreatedAt + 3600
		out[0].RepaymentDeadline = out[0].FundedAt + int64(out[0].DurationSeconds)
	}
	return out
}

// placeholderRaw is the single-order placeholder, carrying the requested id.
// It is a funded order so derived figures (repayment quotes) stay
// well-defined while degraded.
func placeholderRaw(orderID uint64) rawOrder {
	createdAt := placeholderEpoch - placeholderAges[0]
	fundedAt := createdAt + 3600
	return rawOrder{
		OrderID:           *numeric.New(int64(orderID)),
		Borrower:          placeholderBorrowers[0],
		Lender:            placeholderLender,
		NFTContract:       placeholderCollateral[0],
		TokenID:           *numeric.New(1),
		LoanAmount:        *numeric.New(placeholderPrincipals[0]),
		InterestRate:      *numeric.New(int64(placeholderRates[0])),
		Duration:          *numeric.New(int64(placeholderDurations[0])),
		CreatedAt:         *numeric.New(createdAt),
		FundedAt:          *numeric.New(fundedAt),
		RepaymentDeadline: *numeric.New(fundedAt + int64(placeholderDurations[0])),
		Status:            *numeric.New(int64(order.StatusFunded)),
	}
}

// placeholderBalance mirrors the development balance figure.
func placeholderBalance() *big.Int { return big.NewInt(1_000_000_000) }
