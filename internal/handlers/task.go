package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agenciafocomkt/internal-platform-api/internal/dto"
	apierrors "github.com/agenciafocomkt/internal-platform-api/internal/errors"
	"github.com/agenciafocomkt/internal-platform-api/internal/middleware"
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task lifecycle HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask opens a new task and hands it to the notification forwarder.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title        string     `json:"title" binding:"required"`
		Description  string     `json:"description"`
		Status       string     `json:"status"`
		DepartmentID uint64     `json:"department_id" binding:"required"`
		Deadline     *time.Time `json:"deadline"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatus(req.Status),
		DepartmentID: req.DepartmentID,
		Deadline:     req.Deadline,
		CreatedBy:    claims.UserID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// ListTasks returns all tasks, optionally filtered by status. The list is
// not scoped by the caller.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Query("status"))
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns the base task row.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GetTaskFull returns the task with responsible user, support users and
// ordered messages resolved.
func (h *TaskHandler) GetTaskFull(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	full, err := h.taskService.GetTaskFull(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskFullDTO(*full))
}

// UpdateTask patches a task. Only the creator or an admin may update.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	// Deadline is raw so an explicit null (clear the deadline) can be told
	// apart from an absent field (leave it alone).
	type UpdateTaskRequest struct {
		Title             *string         `json:"title"`
		Description       *string         `json:"description"`
		Status            *string         `json:"status"`
		Deadline          json.RawMessage `json:"deadline"`
		ResponsibleUserID *uint64         `json:"responsible_user_id"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		ResponsibleUserID: req.ResponsibleUserID,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if len(req.Deadline) > 0 {
		if bytes.Equal(req.Deadline, []byte("null")) {
			input.ClearDeadline = true
		} else {
			var deadline time.Time
			if err := json.Unmarshal(req.Deadline, &deadline); err != nil {
				apierrors.BadRequest(c, "Invalid deadline")
				return
			}
			input.Deadline = &deadline
		}
	}

	task, err := h.taskService.UpdateTask(taskID, claims.UserID, claims.Role, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask removes a task. Only the creator or an admin may delete.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, claims.UserID, claims.Role); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

// AssumeTask claims the task for the caller, or adds them as support when
// the task already has a responsible user.
func (h *TaskHandler) AssumeTask(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.AssumeTask(taskID, claims.UserID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You are now part of this task's team",
		"task":    dto.ToTaskDTO(*task),
	})
}

// AddSupportUser records another user as support on the task.
func (h *TaskHandler) AddSupportUser(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	type AddSupportRequest struct {
		UserID uint64 `json:"userId" binding:"required"`
	}

	var req AddSupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.AddSupportUser(taskID, req.UserID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User added as support",
	})
}

// GetTaskSupport lists the support users of a task.
func (h *TaskHandler) GetTaskSupport(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	support, err := h.taskService.GetTaskSupport(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSupportUserDTOs(support))
}

// ListMessages returns a task's conversation ordered by creation time.
func (h *TaskHandler) ListMessages(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	messages, err := h.taskService.GetMessages(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageDTOs(messages))
}

// AddMessage appends a message from the authenticated caller.
func (h *TaskHandler) AddMessage(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		return
	}

	type AddMessageRequest struct {
		Content string `json:"content" binding:"required"`
		IsAI    bool   `json:"is_ai"`
	}

	var req AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	senderID := claims.UserID
	message, err := h.taskService.AddMessage(services.AddMessageInput{
		TaskID:   taskID,
		SenderID: &senderID,
		Content:  req.Content,
		IsAI:     req.IsAI,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message added",
		"data":    dto.ToMessageDTO(*message),
	})
}

// AddAIMessage is the unauthenticated ingress used by the automation agent
// to append AI replies.
func (h *TaskHandler) AddAIMessage(c *gin.Context) {
	type AIMessageRequest struct {
		TaskID  uint64 `json:"task_id" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	var req AIMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.taskService.AddMessage(services.AddMessageInput{
		TaskID:  req.TaskID,
		Content: req.Content,
		IsAI:    true,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message added",
		"data":    dto.ToMessageDTO(*message),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrContentRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDepartmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrUserNotInDepartment):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
