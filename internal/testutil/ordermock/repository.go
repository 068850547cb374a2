package ordermock

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
)

// Repo is a function-backed mock that satisfies order.Repository. Only set
// the fields a test needs; the rest report "not implemented".
type Repo struct {
	GetByIDFn        func(ctx context.Context, orderID uint64) (*order.Order, order.Source, error)
	ListOpenFn       func(ctx context.Context) ([]order.Order, order.Source, error)
	ListAllFn        func(ctx context.Context) ([]order.Order, order.Source, error)
	ListByBorrowerFn func(ctx context.Context, addr common.Address) ([]order.Order, order.Source, error)
	ListByLenderFn   func(ctx context.Context, addr common.Address) ([]order.Order, order.Source, error)
	PlatformFeeFn    func(ctx context.Context) (uint64, order.Source, error)
}

var errNotImplemented = errors.New("ordermock: not implemented")

func (m *Repo) GetByID(ctx context.Context, orderID uint64) (*order.Order, order.Source, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, orderID)
	}
	return nil, order.SourceLive, errNotImplemented
}

func (m *Repo) ListOpen(ctx context.Context) ([]order.Order, order.Source, error) {
	if m.ListOpenFn != nil {
		return m.ListOpenFn(ctx)
	}
	return nil, order.SourceLive, errNotImplemented
}

func (m *Repo) ListAll(ctx context.Context) ([]order.Order, order.Source, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, order.SourceLive, errNotImplemented
}

func (m *Repo) ListByBorrower(ctx context.Context, addr common.Address) ([]order.Order, order.Source, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, addr)
	}
	return nil, order.SourceLive, errNotImplemented
}

func (m *Repo) ListByLender(ctx context.Context, addr common.Address) ([]order.Order, order.Source, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, addr)
	}
	return nil, order.SourceLive, errNotImplemented
}

func (m *Repo) PlatformFeeBps(ctx context.Context) (uint64, order.Source, error) {
	if m.PlatformFeeFn != nil {
		return m.PlatformFeeFn(ctx)
	}
	return 100, order.SourceLive, nil
}

// Dispatcher is a function-backed mock for the lifecycle write path.
type Dispatcher struct {
	SubmitFn func(ctx context.Context, method string, params []any, result any) error
}

func (m *Dispatcher) Submit(ctx context.Context, method string, params []any, result any) error {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, method, params, result)
	}
	if s, ok := result.(*string); ok {
		*s = "0xmocktx"
	}
	return nil
}
