package entity

import "time"

// Customer represents an insured person or company
type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null;index" json:"name"`
	NationalID string    `gorm:"size:11;not null;uniqueIndex" json:"national_id"`
	Email      *string   `gorm:"size:255" json:"email,omitempty"`
	Phone      *string   `gorm:"size:50" json:"phone,omitempty"`
	Address    *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Policies []Policy `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
