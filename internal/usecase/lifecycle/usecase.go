package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/usecase/interest"
)

// Dispatcher submits state-mutating calls to the ledger. Write failures come
// back verbatim; there is no fallback path for money-moving operations.
type Dispatcher interface {
	Submit(ctx context.Context, method string, params []any, result any) error
}

// Usecase validates lifecycle transitions against the current contract view
// before dispatching them. Guards always surface a discriminable error; they
// are never silently ignored.
type Usecase struct {
	orders  order.Repository
	gateway Dispatcher
	now     func() time.Time
}

func NewUsecase(orders order.Repository, gateway Dispatcher) *Usecase {
	return &Usecase{orders: orders, gateway: gateway, now: time.Now}
}

// ActionResult reports a dispatched transition.
type ActionResult struct {
	OrderID   uint64
	Action    string
	TxHash    string
	Breakdown *interest.Breakdown
}

// currentView loads the order for guard evaluation. Placeholder data is
// useless for authorizing a transition, so a degraded read aborts instead.
func (u *Usecase) currentView(ctx context.Context, orderID uint64) (*order.Order, error) {
	o, src, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if src == order.SourceFallback {
		return nil, fmt.Errorf("cannot validate order %d against fallback data: %w", orderID, order.ErrRemoteUnavailable)
	}
	return o, nil
}

// Fund moves an OPEN order to FUNDED. A borrower may not fund their own
// request.
func (u *Usecase) Fund(ctx context.Context, orderID uint64, caller common.Address) (*ActionResult, error) {
	o, err := u.currentView(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusOpen {
		return nil, fmt.Errorf("fund order %d in status %s: %w", orderID, o.Status, order.ErrWrongState)
	}
	if caller == o.Borrower {
		return nil, fmt.Errorf("fund order %d by its borrower: %w", orderID, order.ErrWrongCaller)
	}

	var txHash string
	if err := u.gateway.Submit(ctx, "lend_fundOrder", []any{orderID, order.CanonicalAddress(caller)}, &txHash); err != nil {
		return nil, err
	}
	return &ActionResult{OrderID: orderID, Action: "fund", TxHash: txHash}, nil
}

// Cancel retires an OPEN order; only its borrower may do so.
func (u *Usecase) Cancel(ctx context.Context, orderID uint64, caller common.Address) (*ActionResult, error) {
	o, err := u.currentView(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusOpen {
		return nil, fmt.Errorf("cancel order %d in status %s: %w", orderID, o.Status, order.ErrWrongState)
	}
	if caller != o.Borrower {
		return nil, fmt.Errorf("cancel order %d by non-borrower: %w", orderID, order.ErrWrongCaller)
	}

	var txHash string
	if err := u.gateway.Submit(ctx, "lend_cancelOrder", []any{orderID, order.CanonicalAddress(caller)}, &txHash); err != nil {
		return nil, err
	}
	return &ActionResult{OrderID: orderID, Action: "cancel", TxHash: txHash}, nil
}

// Repay settles a FUNDED order at the amount due right now. The deadline is
// deliberately not checked: a borrower may repay late as long as the lender
// has not claimed default first.
func (u *Usecase) Repay(ctx context.Context, orderID uint64, caller common.Address) (*ActionResult, error) {
	o, err := u.currentView(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusFunded {
		return nil, fmt.Errorf("repay order %d in status %s: %w", orderID, o.Status, order.ErrWrongState)
	}
	if caller != o.Borrower {
		return nil, fmt.Errorf("repay order %d by non-borrower: %w", orderID, order.ErrWrongCaller)
	}

	feeBps, feeSrc, err := u.orders.PlatformFeeBps(ctx)
	if err != nil {
		return nil, err
	}
	if feeSrc == order.SourceFallback {
		return nil, fmt.Errorf("platform fee unavailable for repay of order %d: %w", orderID, order.ErrRemoteUnavailable)
	}
	bd, err := interest.ComputeRepayment(o, u.now().Unix(), feeBps)
	if err != nil {
		return nil, err
	}

	var txHash string
	params := []any{orderID, order.CanonicalAddress(caller), bd.TotalDue.String()}
	if err := u.gateway.Submit(ctx, "lend_repayOrder", params, &txHash); err != nil {
		return nil, err
	}
	return &ActionResult{OrderID: orderID, Action: "repay", TxHash: txHash, Breakdown: bd}, nil
}

// ClaimDefault hands the collateral to the lender of a FUNDED order once the
// repayment deadline has passed.
func (u *Usecase) ClaimDefault(ctx context.Context, orderID uint64, caller common.Address) (*ActionResult, error) {
	o, err := u.currentView(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusFunded {
		return nil, fmt.Errorf("claim default on order %d in status %s: %w", orderID, o.Status, order.ErrWrongState)
	}
	if caller != o.Lender {
		return nil, fmt.Errorf("claim default on order %d by non-lender: %w", orderID, order.ErrWrongCaller)
	}
	if u.now().Unix() <= o.RepaymentDeadline {
		return nil, fmt.Errorf("claim default on order %d before deadline: %w", orderID, order.ErrDeadlineNotReached)
	}

	var txHash string
	if err := u.gateway.Submit(ctx, "lend_claimDefault", []any{orderID, order.CanonicalAddress(caller)}, &txHash); err != nil {
		return nil, err
	}
	return &ActionResult{OrderID: orderID, Action: "claim", TxHash: txHash}, nil
}

// RepaymentBreakdown computes the current amount due for display. Unlike the
// write paths it tolerates a degraded read and reports provenance instead.
func (u *Usecase) RepaymentBreakdown(ctx context.Context, orderID uint64) (*interest.Breakdown, order.Source, error) {
	o, src, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, src, err
	}
	feeBps, feeSrc, err := u.orders.PlatformFeeBps(ctx)
	if err != nil {
		return nil, src, err
	}
	if feeSrc == order.SourceFallback {
		src = order.SourceFallback
	}
	bd, err := interest.ComputeRepayment(o, u.now().Unix(), feeBps)
	if err != nil {
		return nil, src, err
	}
	return bd, src, nil
}
