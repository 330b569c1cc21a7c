package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus is an open string enum; "new" is the only value the service
// assigns itself, everything else passes through from the client.
type TaskStatus string

const (
	TaskStatusNew TaskStatus = "new"
)

type Task struct {
	ID                uint64         `gorm:"primarykey" json:"id"`
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Status            TaskStatus     `gorm:"type:varchar(50);not null;default:'new'" json:"status"`
	CreatedBy         uint64         `gorm:"not null" json:"created_by"`
	DepartmentID      uint64         `gorm:"not null" json:"department_id"`
	Deadline          *time.Time     `json:"deadline"`
	ResponsibleUserID *uint64        `json:"responsible_user_id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator         User                `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Department      Department          `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	ResponsibleUser *User               `gorm:"foreignKey:ResponsibleUserID" json:"responsible_user,omitempty"`
	SupportUsers    []TaskSupport       `gorm:"foreignKey:TaskID" json:"support_users,omitempty"`
	SupportMembers  []TaskSupportMember `gorm:"foreignKey:TaskID" json:"support_members,omitempty"`
	Messages        []Message           `gorm:"foreignKey:TaskID" json:"messages,omitempty"`
}
