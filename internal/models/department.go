package models

import "time"

type Department struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Users []User `gorm:"foreignKey:DepartmentID" json:"users,omitempty"`
	Tasks []Task `gorm:"foreignKey:DepartmentID" json:"tasks,omitempty"`
}
