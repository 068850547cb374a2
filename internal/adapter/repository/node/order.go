package node

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/infrastructure/ledger"
	"brewlend-backend/pkg/numeric"
)

const defaultFanout = 8

// rawOrder is the untyped wire shape of a contract order. Large integers may
// arrive as JSON numbers or decimal strings depending on the node; nothing
// past normalize() sees this type.
type rawOrder struct {
	OrderID           numeric.BigInt `json:"orderId"`
	Borrower          string         `json:"borrower"`
	Lender            string         `json:"lender"`
	NFTContract       string         `json:"nftContract"`
	TokenID           numeric.BigInt `json:"tokenId"`
	LoanAmount        numeric.BigInt `json:"loanAmount"`
	InterestRate      numeric.BigInt `json:"interestRate"`
	Duration          numeric.BigInt `json:"duration"`
	CreatedAt         numeric.BigInt `json:"createdAt"`
	FundedAt          numeric.BigInt `json:"fundedAt"`
	RepaymentDeadline numeric.BigInt `json:"repaymentDeadline"`
	Status            numeric.BigInt `json:"status"`
}

// normalize maps the wire shape onto the canonical Order. The zero order id
// is the contract's "no such order" sentinel, never a zero-valued order.
func (r *rawOrder) normalize() (*order.Order, error) {
	id, err := r.OrderID.Uint64()
	if err != nil {
		return nil, fmt.Errorf("order id: %w", err)
	}
	if id == 0 {
		return nil, order.ErrNotFound
	}
	rawStatus, err := r.Status.Uint64()
	if err != nil {
		return nil, fmt.Errorf("order %d: status: %w", id, err)
	}
	status, ok := order.ParseStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("order %d: status %d out of range", id, rawStatus)
	}
	tokenID, err := r.TokenID.Uint64()
	if err != nil {
		return nil, fmt.Errorf("order %d: token id: %w", id, err)
	}
	rateBps, err := r.InterestRate.Uint64()
	if err != nil {
		return nil, fmt.Errorf("order %d: interest rate: %w", id, err)
	}
	duration, err := r.Duration.Uint64()
	if err != nil {
		return nil, fmt.Errorf("order %d: duration: %w", id, err)
	}
	createdAt, err := r.CreatedAt.Int64()
	if err != nil {
		return nil, fmt.Errorf("order %d: created at: %w", id, err)
	}
	fundedAt, err := r.FundedAt.Int64()
	if err != nil {
		return nil, fmt.Errorf("order %d: funded at: %w", id, err)
	}
	deadline, err := r.RepaymentDeadline.Int64()
	if err != nil {
		return nil, fmt.Errorf("order %d: repayment deadline: %w", id, err)
	}
	return &order.Order{
		OrderID:  id,
		Borrower: common.HexToAddress(r.Borrower),
		Lender:   common.HexToAddress(r.Lender),
		Collateral: order.CollateralRef{
			Contract: common.HexToAddress(r.NFTContract),
			TokenID:  tokenID,
		},
		Principal:         r.LoanAmount.Big(),
		InterestRateBps:   rateBps,
		DurationSeconds:   duration,
		CreatedAt:         createdAt,
		FundedAt:          fundedAt,
		RepaymentDeadline: deadline,
		Status:            status,
	}, nil
}

// OrderRepository reads loan orders through the ledger gateway and owns the
// normalization boundary.
type OrderRepository struct {
	client *ledger.Client
	fanout int
}

func NewOrderRepository(c *ledger.Client, fanout int) *OrderRepository {
	if fanout <= 0 {
		fanout = defaultFanout
	}
	return &OrderRepository{client: c, fanout: fanout}
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID uint64) (*order.Order, order.Source, error) {
	res := ledger.Read(ctx, r.client, "lend_getOrder", []any{orderID}, func() rawOrder {
		return placeholderRaw(orderID)
	})
	o, err := res.Value.normalize()
	if err != nil {
		return nil, sourceOf(res.Fallback), err
	}
	return o, sourceOf(res.Fallback), nil
}

func (r *OrderRepository) ListOpen(ctx context.Context) ([]order.Order, order.Source, error) {
	return r.list(ctx, "lend_listOpenOrders", nil, func() []order.Order {
		return placeholderOpenOrders()
	})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, order.Source, error) {
	return r.list(ctx, "lend_listOrders", nil, func() []order.Order {
		return placeholderOpenOrders()
	})
}

func (r *OrderRepository) ListByBorrower(ctx context.Context, addr common.Address) ([]order.Order, order.Source, error) {
	return r.list(ctx, "lend_getBorrowerOrders", []any{order.CanonicalAddress(addr)}, func() []order.Order {
		return placeholderOrdersFor(addr, roleBorrower)
	})
}

func (r *OrderRepository) ListByLender(ctx context.Context, addr common.Address) ([]order.Order, order.Source, error) {
	return r.list(ctx, "lend_getLenderOrders", []any{order.CanonicalAddress(addr)}, func() []order.Order {
		return placeholderOrdersFor(addr, roleLender)
	})
}

func (r *OrderRepository) PlatformFeeBps(ctx context.Context) (uint64, order.Source, error) {
	res := ledger.Read(ctx, r.client, "lend_getPlatformFeeBps", nil, func() numeric.BigInt {
		return *numeric.New(placeholderFeeBps)
	})
	bps, err := res.Value.Uint64()
	if err != nil {
		return 0, sourceOf(res.Fallback), fmt.Errorf("platform fee: %w", err)
	}
	return bps, sourceOf(res.Fallback), nil
}

// list fetches an id set, then fans out per-id detail reads. A failed member
// degrades to its placeholder without discarding the rest of the batch; if
// even the id set is unreachable the whole catalog placeholder is returned.
func (r *OrderRepository) list(ctx context.Context, method string, params []any, catalog func() []order.Order) ([]order.Order, order.Source, error) {
	idsRes := ledger.Read(ctx, r.client, method, params, func() []numeric.BigInt { return nil })
	if idsRes.Fallback {
		return catalog(), order.SourceFallback, nil
	}

	ids := make([]uint64, 0, len(idsRes.Value))
	for i := range idsRes.Value {
		id, err := idsRes.Value[i].Uint64()
		if err != nil {
			return nil, order.SourceLive, fmt.Errorf("%s: order id: %w", method, err)
		}
		ids = append(ids, id)
	}
	return r.fetchDetails(ctx, ids)
}

func (r *OrderRepository) fetchDetails(ctx context.Context, ids []uint64) ([]order.Order, order.Source, error) {
	type slot struct {
		o        *order.Order
		fallback bool
	}
	slots := make([]slot, len(ids))

	var mu sync.Mutex
	degraded := false

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fanout)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := ledger.Read(gctx, r.client, "lend_getOrder", []any{id}, func() rawOrder {
				return placeholderRaw(id)
			})
			o, err := res.Value.normalize()
			if err != nil {
				if errors.Is(err, order.ErrNotFound) {
					return nil // stale id in the set; drop the entry
				}
				return err
			}
			slots[i] = slot{o: o, fallback: res.Fallback}
			if res.Fallback {
				mu.Lock()
				degraded = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, order.SourceLive, err
	}

	out := make([]order.Order, 0, len(slots))
	for _, s := range slots {
		if s.o != nil {
			out = append(out, *s.o)
		}
	}
	return out, sourceOf(degraded), nil
}

func sourceOf(fallback bool) order.Source {
	if fallback {
		return order.SourceFallback
	}
	return order.SourceLive
}
