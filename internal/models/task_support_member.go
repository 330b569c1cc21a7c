package models

import "time"

// TaskSupportMember mirrors TaskSupport and feeds the "my tasks" visibility
// query. The two tables overlap in purpose and must both receive a row for
// a support addition to be fully visible.
type TaskSupportMember struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
