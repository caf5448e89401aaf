package request

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/enum"
)

// AccountingRequest is a Gelir or Gider entry. customer_id may be omitted
// when policy_id is given.
type AccountingRequest struct {
	CustomerID      *uint               `json:"customer_id"`
	PolicyID        *uint               `json:"policy_id"`
	PlateNumber     *string             `json:"plate_number" binding:"omitempty,max=20"`
	TransactionDate string              `json:"transaction_date" binding:"required"`
	Amount          *decimal.Decimal    `json:"amount" binding:"required"`
	Type            enum.AccountingType `json:"type" binding:"required"`
	Description     *string             `json:"description"`
}

// Date parses transaction_date
func (r *AccountingRequest) Date() (time.Time, error) {
	return parseDate("transaction_date", r.TransactionDate)
}
