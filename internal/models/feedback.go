package models

import "time"

// Feedback is a customer quality rating captured via the QR feedback page.
type Feedback struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	RequestID uint64    `gorm:"not null;index" json:"request_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Request Request `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}
