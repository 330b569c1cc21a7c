package dto

import (
	"time"

	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                uint64            `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Status            models.TaskStatus `json:"status"`
	CreatedBy         uint64            `json:"created_by"`
	DepartmentID      uint64            `json:"department_id"`
	Deadline          *time.Time        `json:"deadline"`
	ResponsibleUserID *uint64           `json:"responsible_user_id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Creator           *UserSummaryDTO   `json:"creator,omitempty"`
}

// SupportUserDTO represents a support row joined with minimal user fields
type SupportUserDTO struct {
	UserID uint64         `json:"user_id"`
	User   UserSummaryDTO `json:"user"`
}

// MessageDTO represents a task message in API responses
type MessageDTO struct {
	ID        uint64          `json:"id"`
	TaskID    uint64          `json:"task_id"`
	SenderID  *uint64         `json:"sender_id"`
	Content   string          `json:"content"`
	IsAI      bool            `json:"is_ai"`
	CreatedAt time.Time       `json:"created_at"`
	Sender    *UserSummaryDTO `json:"sender,omitempty"`
}

// TaskFullDTO is the full task view with responsible, support and messages
type TaskFullDTO struct {
	TaskDTO
	ResponsibleUser *UserSummaryDTO  `json:"responsible_user"`
	SupportUsers    []SupportUserDTO `json:"support_users"`
	Messages        []MessageDTO     `json:"messages"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            task.Status,
		CreatedBy:         task.CreatedBy,
		DepartmentID:      task.DepartmentID,
		Deadline:          task.Deadline,
		ResponsibleUserID: task.ResponsibleUserID,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserSummaryDTO(task.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToSupportUserDTO converts a TaskSupport row
func ToSupportUserDTO(support models.TaskSupport) SupportUserDTO {
	return SupportUserDTO{
		UserID: support.UserID,
		User:   ToUserSummaryDTO(support.User),
	}
}

// ToSupportUserDTOs converts a slice of support rows
func ToSupportUserDTOs(support []models.TaskSupport) []SupportUserDTO {
	dtos := make([]SupportUserDTO, len(support))
	for i, s := range support {
		dtos[i] = ToSupportUserDTO(s)
	}
	return dtos
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(message models.Message) MessageDTO {
	dto := MessageDTO{
		ID:        message.ID,
		TaskID:    message.TaskID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		IsAI:      message.IsAI,
		CreatedAt: message.CreatedAt,
	}

	if message.Sender != nil && message.Sender.ID != 0 {
		sender := ToUserSummaryDTO(*message.Sender)
		dto.Sender = &sender
	}

	return dto
}

// ToMessageDTOs converts a slice of messages
func ToMessageDTOs(messages []models.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = ToMessageDTO(m)
	}
	return dtos
}

// ToTaskFullDTO converts the composed full task view
func ToTaskFullDTO(full services.TaskFull) TaskFullDTO {
	dto := TaskFullDTO{
		TaskDTO:      ToTaskDTO(full.Task),
		SupportUsers: ToSupportUserDTOs(full.SupportUsers),
		Messages:     ToMessageDTOs(full.Messages),
	}

	if full.ResponsibleUser != nil {
		responsible := ToUserSummaryDTO(*full.ResponsibleUser)
		dto.ResponsibleUser = &responsible
	}

	return dto
}
