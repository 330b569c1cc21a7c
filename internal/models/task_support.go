package models

import "time"

// TaskSupport records secondary helpers on a task. The composite primary
// key doubles as the uniqueness constraint; duplicate inserts are resolved
// with an ON CONFLICT no-op rather than a pre-check query.
type TaskSupport struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
