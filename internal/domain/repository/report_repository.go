package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
)

// PeriodGranularity selects the bucket used by PeriodTotals
type PeriodGranularity string

const (
	PeriodMonth PeriodGranularity = "month"
	PeriodYear  PeriodGranularity = "year"
)

// PeriodTotalsResult is income and expense for one month or year
type PeriodTotalsResult struct {
	Period           string
	Income           decimal.Decimal
	Expense          decimal.Decimal
	TransactionCount int64
}

// PolicyTypeTotalsResult aggregates policies of one type
type PolicyTypeTotalsResult struct {
	Type         enum.PolicyType
	PolicyCount  int64
	ActiveCount  int64
	TotalPremium decimal.Decimal
}

// CustomerTotalsResult is a customer's income and expense. Customers without
// records in range are not returned.
type CustomerTotalsResult struct {
	CustomerID       uint
	CustomerName     string
	NationalID       string
	Phone            *string
	Income           decimal.Decimal
	Expense          decimal.Decimal
	TransactionCount int64
}

// CustomerPolicyCountResult counts a customer's policies, zero included
type CustomerPolicyCountResult struct {
	CustomerID   uint
	CustomerName string
	PolicyCount  int64
	ActiveCount  int64
	TotalPremium decimal.Decimal
}

// ReportRepository defines the aggregate queries behind reports and the dashboard
type ReportRepository interface {
	// PeriodTotals groups accounting records by month or year, period ascending
	PeriodTotals(ctx context.Context, g PeriodGranularity, r DateRange) ([]PeriodTotalsResult, error)

	// PolicyTypeTotals groups policies by type; the range applies to start_date
	PolicyTypeTotals(ctx context.Context, r DateRange) ([]PolicyTypeTotalsResult, error)

	// CustomerTotals sums accounting records per customer
	CustomerTotals(ctx context.Context, r DateRange) ([]CustomerTotalsResult, error)

	// LastTransaction returns the customer's most recent record, or nil
	LastTransaction(ctx context.Context, customerID uint) (*entity.AccountingRecord, error)

	// CustomerPolicyCounts lists every customer with policy counts
	CustomerPolicyCounts(ctx context.Context) ([]CustomerPolicyCountResult, error)

	// ActivePolicies returns Aktif policies ending within [from, to] when given,
	// ordered by end_date ASC, id ASC
	ActivePolicies(ctx context.Context, endFrom, endTo *time.Time) ([]entity.Policy, error)
}
