package repository

import (
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// Create appends a message
func (r *GormMessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListByTaskID lists messages of a task ordered by creation time, with the
// sender preloaded
func (r *GormMessageRepository) ListByTaskID(taskID uint64) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Preload("Sender").
		Where("task_id = ?", taskID).
		Order("messages.created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
