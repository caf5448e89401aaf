package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/enum"
)

// AccountingRecord is a single income (Gelir) or expense (Gider) entry of a
// customer. PolicyID is an optional link kept for clients that still post
// policy-keyed records.
type AccountingRecord struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	CustomerID      uint                `gorm:"not null;index" json:"customer_id"`
	PolicyID        *uint               `gorm:"index" json:"policy_id,omitempty"`
	PlateNumber     *string             `gorm:"size:20;index" json:"plate_number,omitempty"`
	TransactionDate time.Time           `gorm:"type:date;not null;index" json:"transaction_date"`
	Amount          decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type            enum.AccountingType `gorm:"size:10;not null;index" json:"type"`
	Description     *string             `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
}

// TableName returns the table name for the AccountingRecord model
func (AccountingRecord) TableName() string {
	return "accounting"
}

// SignedAmount is the amount with income positive and expense negative
func (r *AccountingRecord) SignedAmount() decimal.Decimal {
	if r.Type == enum.AccountingTypeExpense {
		return r.Amount.Neg()
	}
	return r.Amount
}
