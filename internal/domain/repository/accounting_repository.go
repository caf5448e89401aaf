package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
)

// Totals aggregates income and expense over a set of accounting records
type Totals struct {
	Income           decimal.Decimal
	Expense          decimal.Decimal
	TransactionCount int64
}

// Net is income minus expense
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// AccountingRepository defines the interface for accounting record operations
type AccountingRepository interface {
	Create(ctx context.Context, record *entity.AccountingRecord) error
	GetByID(ctx context.Context, id uint) (*entity.AccountingRecord, error)
	Update(ctx context.Context, record *entity.AccountingRecord) error
	Delete(ctx context.Context, id uint) error
	// List orders by transaction_date DESC, id DESC
	List(ctx context.Context, filter AccountingFilter) ([]entity.AccountingRecord, int64, error)
	// ListForLedger returns a customer's records by transaction_date ASC, id ASC
	ListForLedger(ctx context.Context, customerID uint, r DateRange) ([]entity.AccountingRecord, error)
	// Totals sums records, optionally for a single customer
	Totals(ctx context.Context, customerID *uint, r DateRange) (Totals, error)
}
