package models

import "time"

type RequestStatus string

const (
	StatusNew            RequestStatus = "New"
	StatusInRepair       RequestStatus = "InRepair"
	StatusReadyForPickup RequestStatus = "ReadyForPickup"
	StatusAwaitingParts  RequestStatus = "AwaitingParts"
)

// RequestStatuses lists every value a request may carry.
var RequestStatuses = []RequestStatus{
	StatusNew,
	StatusInRepair,
	StatusReadyForPickup,
	StatusAwaitingParts,
}

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s RequestStatus) bool {
	for _, known := range RequestStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Request struct {
	ID                 uint64        `gorm:"primarykey" json:"id"`
	StartDate          time.Time     `gorm:"not null" json:"start_date"`
	ApplianceType      string        `gorm:"type:varchar(255);not null" json:"appliance_type"`
	ApplianceModel     string        `gorm:"type:varchar(255);not null" json:"appliance_model"`
	ProblemDescription string        `gorm:"type:text;not null" json:"problem_description"`
	Status             RequestStatus `gorm:"type:varchar(20);not null;default:'New'" json:"status"`
	CompletionDate     *time.Time    `json:"completion_date"`
	RepairParts        *string       `gorm:"type:text" json:"repair_parts"`
	TechnicianID       *uint64       `json:"technician_id"`
	CustomerID         uint64        `gorm:"not null" json:"customer_id"`
	CreatedAt          time.Time     `json:"created_at"`

	// Relations
	Customer   User      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Technician *User     `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	Comments   []Comment `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}
