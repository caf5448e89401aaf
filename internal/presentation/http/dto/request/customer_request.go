package request

// CustomerRequest is the body of create and update; update overwrites every field
type CustomerRequest struct {
	Name       string  `json:"name" binding:"required,max=255"`
	NationalID string  `json:"national_id" binding:"required,len=11,numeric"`
	Email      *string `json:"email" binding:"omitempty,email,max=255"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Address    *string `json:"address"`
}
