package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	AuthID       uint64         `gorm:"uniqueIndex;not null" json:"auth_id"`
	FirstName    string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CPF          string         `gorm:"type:varchar(14);not null" json:"cpf"`
	DepartmentID uint64         `gorm:"not null" json:"department_id"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Department   Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedTasks []Task     `gorm:"foreignKey:CreatedBy" json:"-"`
}
