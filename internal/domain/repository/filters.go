package repository

import (
	"time"

	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/pkg/pagination"
)

// DateRange is an inclusive calendar range. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsOpen reports whether neither bound is set
func (r DateRange) IsOpen() bool {
	return r.From == nil && r.To == nil
}

// CustomerFilter narrows customer listings
type CustomerFilter struct {
	Search string
}

// PolicyFilter narrows policy listings. The date range applies to start_date.
type PolicyFilter struct {
	Search     string
	Status     *enum.PolicyStatus
	Type       *enum.PolicyType
	CustomerID *uint
	DateRange
	Pagination *pagination.PaginationParams
}

// AccountingFilter narrows accounting listings. The date range applies to transaction_date.
type AccountingFilter struct {
	CustomerID  *uint
	PolicyID    *uint
	Type        *enum.AccountingType
	PlateNumber string
	Search      string
	DateRange
	Pagination *pagination.PaginationParams
}
