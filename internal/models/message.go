package models

import "time"

// Message is an append-only task conversation entry. SenderID is nil for
// AI-generated messages.
type Message struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	SenderID  *uint64   `json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsAI      bool      `gorm:"not null;default:false" json:"is_ai"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task   Task  `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
