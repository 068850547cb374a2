package token

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
)

// Repository reads token balances from the ledger. Balances follow the same
// fallback rules as order reads.
type Repository interface {
	BalanceOf(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, order.Source, error)
}
