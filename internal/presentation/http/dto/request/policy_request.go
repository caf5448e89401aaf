package request

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/enum"
)

// PolicyFileRequest references a file previously stored through /uploads
type PolicyFileRequest struct {
	Name     string `json:"name" binding:"required"`
	URL      string `json:"url" binding:"required"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size" binding:"gte=0"`
}

// PolicyRequest is the body of create and update. An empty policy_number
// asks for a generated one; on update an absent files array keeps the list.
type PolicyRequest struct {
	PolicyNumber string               `json:"policy_number" binding:"omitempty,max=50"`
	CustomerID   uint                 `json:"customer_id" binding:"required"`
	PlateNumber  *string              `json:"plate_number" binding:"omitempty,max=20"`
	StartDate    string               `json:"start_date" binding:"required"`
	EndDate      string               `json:"end_date" binding:"required"`
	Premium      *decimal.Decimal     `json:"premium" binding:"required"`
	Type         enum.PolicyType      `json:"type" binding:"required"`
	Status       *enum.PolicyStatus   `json:"status"`
	Description  *string              `json:"description"`
	Files        *[]PolicyFileRequest `json:"files" binding:"omitempty,dive"`
}

// Dates parses start_date and end_date
func (r *PolicyRequest) Dates() (start, end time.Time, err error) {
	if start, err = parseDate("start_date", r.StartDate); err != nil {
		return
	}
	end, err = parseDate("end_date", r.EndDate)
	return
}
