package models

import "time"

// Identity is the credential record of the managed auth store. Profile rows
// reference it through User.AuthID and are deleted independently; identity
// rows are never hard-deleted.
type Identity struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
