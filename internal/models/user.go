package models

import "time"

type Role string

const (
	RoleManager    Role = "Manager"
	RoleTechnician Role = "Technician"
	RoleOperator   Role = "Operator"
	RoleCustomer   Role = "Customer"

	// RoleQualityManager is accepted on the quality routes only; it is not
	// part of the user table enumeration.
	RoleQualityManager Role = "QualityManager"
)

// Roles lists the values a stored account may carry.
var Roles = []Role{RoleManager, RoleTechnician, RoleOperator, RoleCustomer}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone        string    `gorm:"type:varchar(50);not null" json:"phone"`
	Login        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"login"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Requests []Request `gorm:"foreignKey:CustomerID" json:"-"`
	Jobs     []Request `gorm:"foreignKey:TechnicianID" json:"-"`
}
