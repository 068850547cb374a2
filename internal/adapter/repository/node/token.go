package node

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/infrastructure/ledger"
	"brewlend-backend/pkg/numeric"
)

// TokenRepository reads token balances through the ledger gateway.
type TokenRepository struct {
	client *ledger.Client
}

func NewTokenRepository(c *ledger.Client) *TokenRepository {
	return &TokenRepository{client: c}
}

func (r *TokenRepository) BalanceOf(ctx context.Context, tokenAddr, holder common.Address) (*big.Int, order.Source, error) {
	res := ledger.Read(ctx, r.client, "token_balanceOf",
		[]any{order.CanonicalAddress(tokenAddr), order.CanonicalAddress(holder)},
		func() numeric.BigInt { return *numeric.FromBig(placeholderBalance()) },
	)
	return res.Value.Big(), sourceOf(res.Fallback), nil
}
