package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agenciafocomkt/internal-platform-api/internal/logger"
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrTaskPermissionDenied = errors.New("only the creator or an admin can perform this action")
	ErrUserNotInDepartment  = errors.New("user does not belong to this department")
	ErrContentRequired      = errors.New("message content is required")
)

// TaskService handles task lifecycle business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	deptRepo    repository.DepartmentRepository
	messageRepo repository.MessageRepository
	notifier    *Notifier
}

// NewTaskService creates a new TaskService. The notifier may be nil, in
// which case no webhooks are sent.
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	messageRepo repository.MessageRepository,
	notifier *Notifier,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		deptRepo:    deptRepo,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	DepartmentID uint64
	Deadline     *time.Time
	CreatedBy    uint64
}

// CreateTask inserts a task, then best-effort enriches it with department
// and creator data and hands the payload to the notification forwarder. The
// forwarder runs in its own goroutine and can never fail the request.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusNew
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		CreatedBy:    input.CreatedBy,
		DepartmentID: input.DepartmentID,
		Deadline:     input.Deadline,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if s.notifier != nil {
		payload := s.buildTaskCreatedPayload(task)
		go func() {
			if err := s.notifier.SendTaskCreated(payload); err != nil {
				logger.L().Error("task webhook failed",
					zap.Uint64("task_id", task.ID), zap.Error(err))
			}
		}()
	}

	return task, nil
}

// buildTaskCreatedPayload enriches the webhook payload. Every lookup is
// best-effort: a failed one is logged and the field falls back to "Unknown".
func (s *TaskService) buildTaskCreatedPayload(task *models.Task) TaskCreatedPayload {
	payload := TaskCreatedPayload{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Department: TaskCreatedDepartment{
			ID:   task.DepartmentID,
			Name: "Unknown",
		},
		CreatedBy: TaskCreatedCreator{
			ID:         task.CreatedBy,
			Department: "Unknown",
		},
	}

	if dept, err := s.deptRepo.FindByID(task.DepartmentID); err != nil {
		logger.L().Warn("webhook enrichment: department fetch failed",
			zap.Uint64("department_id", task.DepartmentID), zap.Error(err))
	} else {
		payload.Department.Name = dept.Name
	}

	creator, err := s.userRepo.FindByID(task.CreatedBy)
	if err != nil {
		logger.L().Warn("webhook enrichment: creator fetch failed",
			zap.Uint64("user_id", task.CreatedBy), zap.Error(err))
		return payload
	}
	payload.CreatedBy.FirstName = creator.FirstName
	payload.CreatedBy.LastName = creator.LastName
	payload.CreatedBy.Email = creator.Email

	if creatorDept, err := s.deptRepo.FindByID(creator.DepartmentID); err != nil {
		logger.L().Warn("webhook enrichment: creator department fetch failed",
			zap.Uint64("department_id", creator.DepartmentID), zap.Error(err))
	} else {
		payload.CreatedBy.Department = creatorDept.Name
	}

	return payload
}

// ListTasks returns all tasks, optionally filtered by status equality. The
// list is not scoped by caller identity or department.
func (s *TaskService) ListTasks(status string) ([]models.Task, error) {
	var filter *models.TaskStatus
	if status != "" {
		st := models.TaskStatus(status)
		filter = &st
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns the base task row.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// TaskFull combines a task with its resolved responsible user, support
// users and ordered messages.
type TaskFull struct {
	Task            models.Task
	ResponsibleUser *models.User
	SupportUsers    []models.TaskSupport
	Messages        []models.Message
}

// GetTaskFull resolves the full task view. An unset responsible user yields
// a nil ResponsibleUser, not an error.
func (s *TaskService) GetTaskFull(taskID uint64) (*TaskFull, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	full := &TaskFull{Task: *task}

	if task.ResponsibleUserID != nil {
		responsible, err := s.userRepo.FindByID(*task.ResponsibleUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find responsible user: %w", err)
		}
		full.ResponsibleUser = responsible
	}

	support, err := s.taskRepo.ListSupport(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list support users: %w", err)
	}
	full.SupportUsers = support

	messages, err := s.messageRepo.ListByTaskID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	full.Messages = messages

	return full, nil
}

// UpdateTaskInput represents a partial task update.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Status            *models.TaskStatus
	Deadline          *time.Time
	ClearDeadline     bool
	ResponsibleUserID *uint64
}

// UpdateTask patches a task. Only the creator or an admin may update.
func (s *TaskService) UpdateTask(taskID, actorID uint64, actorRole models.UserRole, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatedBy != actorID && actorRole != models.RoleAdmin {
		return nil, ErrTaskPermissionDenied
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.ResponsibleUserID != nil {
		task.ResponsibleUserID = input.ResponsibleUserID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task. Only the creator or an admin may delete.
// Messages and support rows are not cascaded.
func (s *TaskService) DeleteTask(taskID, actorID uint64, actorRole models.UserRole) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatedBy != actorID && actorRole != models.RoleAdmin {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssumeTask claims an unassigned task for the user, or records the user as
// support when the task already has a responsible. The user must belong to
// the task's department.
func (s *TaskService) AssumeTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.validateDepartmentMembership(taskID, userID)
	if err != nil {
		return nil, err
	}

	if task.ResponsibleUserID == nil {
		if err := s.taskRepo.SetResponsible(taskID, userID); err != nil {
			return nil, fmt.Errorf("failed to claim task: %w", err)
		}
		return s.taskRepo.FindByID(taskID)
	}

	if err := s.taskRepo.AddSupport(taskID, userID); err != nil {
		return nil, fmt.Errorf("failed to add support: %w", err)
	}
	return task, nil
}

// AddSupportUser records a user as support on a task, in both support
// tables. Duplicate additions are no-ops. The user must belong to the
// task's department.
func (s *TaskService) AddSupportUser(taskID, userID uint64) error {
	if _, err := s.validateDepartmentMembership(taskID, userID); err != nil {
		return err
	}

	if err := s.taskRepo.AddSupport(taskID, userID); err != nil {
		return fmt.Errorf("failed to add support: %w", err)
	}
	if err := s.taskRepo.AddSupportMember(taskID, userID); err != nil {
		return fmt.Errorf("failed to add support member: %w", err)
	}
	return nil
}

// GetTaskSupport lists the support users of a task.
func (s *TaskService) GetTaskSupport(taskID uint64) ([]models.TaskSupport, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	support, err := s.taskRepo.ListSupport(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list support users: %w", err)
	}
	return support, nil
}

// validateDepartmentMembership resolves user, task and department and checks
// that the user belongs to the task's department.
func (s *TaskService) validateDepartmentMembership(taskID, userID uint64) (*models.Task, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.deptRepo.FindByID(task.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}

	if user.DepartmentID != task.DepartmentID {
		return nil, ErrUserNotInDepartment
	}
	return task, nil
}

// AddMessageInput represents input for appending a task message.
type AddMessageInput struct {
	TaskID   uint64
	SenderID *uint64
	Content  string
	IsAI     bool
}

// AddMessage appends a message to a task conversation. A user message is
// additionally forwarded best-effort to the reply webhook.
func (s *TaskService) AddMessage(input AddMessageInput) (*models.Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.taskRepo.FindByID(input.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	senderID := input.SenderID
	if input.IsAI {
		senderID = nil
	}

	message := &models.Message{
		TaskID:   input.TaskID,
		SenderID: senderID,
		Content:  input.Content,
		IsAI:     input.IsAI,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	if !input.IsAI && s.notifier != nil {
		payload := UserReplyPayload{
			TaskID:   message.TaskID,
			SenderID: message.SenderID,
			Content:  message.Content,
		}
		go func() {
			if err := s.notifier.SendUserReply(payload); err != nil {
				logger.L().Error("reply webhook failed",
					zap.Uint64("task_id", message.TaskID), zap.Error(err))
			}
		}()
	}

	return message, nil
}

// GetMessages lists a task's messages ordered by creation time.
func (s *TaskService) GetMessages(taskID uint64) ([]models.Message, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	messages, err := s.messageRepo.ListByTaskID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
