package entity

import "time"

// PolicyFile is a document attached to a policy. URL points at the public
// storage location returned by the upload endpoint.
type PolicyFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PolicyID  uint      `gorm:"not null;index" json:"policy_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func (PolicyFile) TableName() string {
	return "policy_files"
}
