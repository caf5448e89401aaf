package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/enum"
)

// Policy is an insurance contract held by a customer.
// CustomerName and CustomerNationalID are denormalized copies of the owner.
type Policy struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	PolicyNumber       string            `gorm:"size:50;not null;uniqueIndex" json:"policy_number"`
	CustomerID         uint              `gorm:"not null;index" json:"customer_id"`
	CustomerName       string            `gorm:"size:255" json:"customer_name"`
	CustomerNationalID string            `gorm:"size:11" json:"customer_national_id"`
	PlateNumber        *string           `gorm:"size:20;index" json:"plate_number,omitempty"`
	StartDate          time.Time         `gorm:"type:date;not null;index" json:"start_date"`
	EndDate            time.Time         `gorm:"type:date;not null;index" json:"end_date"`
	Premium            decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"premium"`
	Type               enum.PolicyType   `gorm:"size:20;not null;index" json:"type"`
	Status             enum.PolicyStatus `gorm:"size:20;not null;index" json:"status"`
	Description        *string           `gorm:"type:text" json:"description,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// Relationships
	Files   []PolicyFile       `gorm:"foreignKey:PolicyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"files"`
	Records []AccountingRecord `gorm:"foreignKey:PolicyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName returns the table name for the Policy model
func (Policy) TableName() string {
	return "policies"
}

// IsActive reports whether the policy is in the Aktif state
func (p *Policy) IsActive() bool {
	return p.Status == enum.PolicyStatusActive
}

// SyncCustomer copies the owner's identity onto the policy
func (p *Policy) SyncCustomer(c *Customer) {
	p.CustomerID = c.ID
	p.CustomerName = c.Name
	p.CustomerNationalID = c.NationalID
}
