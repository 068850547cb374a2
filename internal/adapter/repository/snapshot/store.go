package snapshot

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brewlend-backend/internal/domain/order"
)

// OrderRecord is the persisted projection of a normalized order. It is a
// read-through cache only; the contract keeps the authoritative copy. Amount
// columns are decimal strings so precision survives the round trip.
type OrderRecord struct {
	OrderID            uint64    `gorm:"primaryKey;autoIncrement:false;column:order_id"`
	Borrower           string    `gorm:"size:42;index:idx_order_snapshots_borrower"`
	Lender             string    `gorm:"size:42;index:idx_order_snapshots_lender"`
	CollateralContract string    `gorm:"size:42"`
	CollateralTokenID  uint64    `gorm:"column:collateral_token_id"`
	Principal          string    `gorm:"size:78"`
	InterestRateBps    uint64    `gorm:"column:interest_rate_bps"`
	DurationSeconds    uint64    `gorm:"column:duration_seconds"`
	CreatedAt          int64     `gorm:"column:created_at"`
	FundedAt           int64     `gorm:"column:funded_at"`
	RepaymentDeadline  int64     `gorm:"column:repayment_deadline"`
	Status             uint8     `gorm:"column:status"`
	RefreshedAt        time.Time `gorm:"autoUpdateTime"`
}

func (OrderRecord) TableName() string { return "order_snapshots" }

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate creates or updates the snapshot schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&OrderRecord{})
}

// Upsert replaces the stored projection of each order. Orders never get
// deleted: terminal ones stay queryable indefinitely.
func (s *Store) Upsert(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}
	records := make([]OrderRecord, len(orders))
	for i := range orders {
		records[i] = toRecord(&orders[i])
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&records).Error
}

// List returns every stored projection, newest first.
func (s *Store) List(ctx context.Context) ([]order.Order, error) {
	var records []OrderRecord
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, order_id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]order.Order, 0, len(records))
	for i := range records {
		o, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

func toRecord(o *order.Order) OrderRecord {
	principal := "0"
	if o.Principal != nil {
		principal = o.Principal.String()
	}
	return OrderRecord{
		OrderID:            o.OrderID,
		Borrower:           order.CanonicalAddress(o.Borrower),
		Lender:             order.CanonicalAddress(o.Lender),
		CollateralContract: order.CanonicalAddress(o.Collateral.Contract),
		CollateralTokenID:  o.Collateral.TokenID,
		Principal:          principal,
		InterestRateBps:    o.InterestRateBps,
		DurationSeconds:    o.DurationSeconds,
		CreatedAt:          o.CreatedAt,
		FundedAt:           o.FundedAt,
		RepaymentDeadline:  o.RepaymentDeadline,
		Status:             uint8(o.Status),
	}
}

func fromRecord(r *OrderRecord) (*order.Order, error) {
	principal, ok := new(big.Int).SetString(r.Principal, 10)
	if !ok {
		return nil, fmt.Errorf("snapshot: order %d: bad principal %q", r.OrderID, r.Principal)
	}
	status, ok := order.ParseStatus(uint64(r.Status))
	if !ok {
		return nil, fmt.Errorf("snapshot: order %d: bad status %d", r.OrderID, r.Status)
	}
	return &order.Order{
		OrderID:  r.OrderID,
		Borrower: common.HexToAddress(r.Borrower),
		Lender:   common.HexToAddress(r.Lender),
		Collateral: order.CollateralRef{
			Contract: common.HexToAddress(r.CollateralContract),
			TokenID:  r.CollateralTokenID,
		},
		Principal:         principal,
		InterestRateBps:   r.InterestRateBps,
		DurationSeconds:   r.DurationSeconds,
		CreatedAt:         r.CreatedAt,
		FundedAt:          r.FundedAt,
		RepaymentDeadline: r.RepaymentDeadline,
		Status:            status,
	}, nil
}
