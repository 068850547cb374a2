package order

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Repository reads loan orders from the ledger. Every method reports the
// provenance of its data: SourceFallback means the node was unreachable and
// deterministic placeholders were substituted (reads never surface transport
// errors). For bulk listings a single degraded member is enough to mark the
// whole result SourceFallback.
type Repository interface {
	GetByID(ctx context.Context, orderID uint64) (*Order, Source, error)
	ListOpen(ctx context.Context) ([]Order, Source, error)
	ListAll(ctx context.Context) ([]Order, Source, error)
	ListByBorrower(ctx context.Context, addr common.Address) ([]Order, Source, error)
	ListByLender(ctx context.Context, addr common.Address) ([]Order, Source, error)
	PlatformFeeBps(ctx context.Context) (uint64, Source, error)
}
