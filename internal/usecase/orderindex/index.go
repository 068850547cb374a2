package orderindex

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"brewlend-backend/internal/domain/order"
)

// Role selects which side of an order an address is matched against.
type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
)

// Snapshotter optionally persists rebuilt projections so the index can warm
// start without the node.
type Snapshotter interface {
	Upsert(ctx context.Context, orders []order.Order) error
	List(ctx context.Context) ([]order.Order, error)
}

type entry struct {
	orderID   uint64
	createdAt int64
}

// Index is the rebuildable address→orders projection. It is not maintained
// incrementally (the ledger pushes no notifications), so staleness is
// bounded only by the last Rebuild. Safe for concurrent readers.
type Index struct {
	orders order.Repository
	store  Snapshotter

	mu         sync.RWMutex
	byBorrower map[string][]entry
	byLender   map[string][]entry
	rebuiltAt  time.Time
	source     order.Source
}

func New(orders order.Repository, store Snapshotter) *Index {
	return &Index{
		orders:     orders,
		store:      store,
		byBorrower: make(map[string][]entry),
		byLender:   make(map[string][]entry),
	}
}

// Rebuild replaces the projection from a full bulk read. Live rebuilds also
// refresh the snapshot store.
func (ix *Index) Rebuild(ctx context.Context) (order.Source, error) {
	all, src, err := ix.orders.ListAll(ctx)
	if err != nil {
		return src, err
	}
	if ix.store != nil && src == order.SourceLive {
		// Persisting the projection is best-effort; the in-memory index
		// is the one answering queries.
		_ = ix.store.Upsert(ctx, all)
	}
	ix.replace(all, src)
	return src, nil
}

// WarmStart seeds the projection from the snapshot store, if one is wired.
func (ix *Index) WarmStart(ctx context.Context) error {
	if ix.store == nil {
		return nil
	}
	stored, err := ix.store.List(ctx)
	if err != nil {
		return err
	}
	// An empty snapshot table is not a warm start; leave rebuiltAt zero so
	// the first query triggers a live rebuild.
	if len(stored) == 0 {
		return nil
	}
	ix.replace(stored, order.SourceLive)
	return nil
}

func (ix *Index) replace(all []order.Order, src order.Source) {
	byBorrower := make(map[string][]entry)
	byLender := make(map[string][]entry)
	for i := range all {
		o := &all[i]
		e := entry{orderID: o.OrderID, createdAt: o.CreatedAt}
		b := order.CanonicalAddress(o.Borrower)
		byBorrower[b] = append(byBorrower[b], e)
		if o.HasLender() {
			l := order.CanonicalAddress(o.Lender)
			byLender[l] = append(byLender[l], e)
		}
	}
	for _, m := range []map[string][]entry{byBorrower, byLender} {
		for _, entries := range m {
			sort.Slice(entries, func(i, j int) bool {
				if entries[i].createdAt != entries[j].createdAt {
					return entries[i].createdAt > entries[j].createdAt
				}
				return entries[i].orderID > entries[j].orderID
			})
		}
	}

	ix.mu.Lock()
	ix.byBorrower = byBorrower
	ix.byLender = byLender
	ix.rebuiltAt = time.Now()
	ix.source = src
	ix.mu.Unlock()
}

// OrdersFor returns the order ids where addr plays the given role, newest
// first. Address matching is case-insensitive.
func (ix *Index) OrdersFor(addr string, role Role) []uint64 {
	key := strings.ToLower(common.HexToAddress(addr).Hex())

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	m := ix.byBorrower
	if role == RoleLender {
		m = ix.byLender
	}
	entries := m[key]
	out := make([]uint64, len(entries))
	for i, e := range entries {
		out[i] = e.orderID
	}
	return out
}

// RebuiltAt reports when the projection was last replaced and whether it was
// built from live data. A zero time means it was never built.
func (ix *Index) RebuiltAt() (time.Time, order.Source) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.rebuiltAt, ix.source
}
