package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	AuthorID  uint64    `gorm:"not null" json:"author_id"`
	RequestID uint64    `gorm:"not null" json:"request_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
