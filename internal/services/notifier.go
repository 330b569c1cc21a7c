package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agenciafocomkt/internal-platform-api/internal/logger"
	"go.uber.org/zap"
)

// Notifier forwards task events to the n8n webhook endpoints. Every call is
// best-effort: callers log the returned error and move on, a webhook outage
// must never fail the primary response. No retry, no backoff.
type Notifier struct {
	client   *http.Client
	taskURL  string
	replyURL string
	token    string
}

// NewNotifier creates a Notifier posting to the given webhook URLs.
func NewNotifier(taskURL, replyURL, token string) *Notifier {
	return &Notifier{
		client:   &http.Client{},
		taskURL:  taskURL,
		replyURL: replyURL,
		token:    token,
	}
}

// TaskCreatedDepartment identifies the department a task was routed to.
type TaskCreatedDepartment struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskCreatedCreator describes who opened the task.
type TaskCreatedCreator struct {
	ID         uint64 `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// TaskCreatedPayload is the fixed wire shape of the task-creation webhook.
type TaskCreatedPayload struct {
	TaskID      uint64                `json:"task_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Department  TaskCreatedDepartment `json:"department"`
	CreatedBy   TaskCreatedCreator    `json:"created_by"`
	Token       string                `json:"token,omitempty"`
}

// UserReplyPayload is the wire shape of the user-reply webhook.
type UserReplyPayload struct {
	TaskID   uint64  `json:"task_id"`
	SenderID *uint64 `json:"sender_id"`
	Content  string  `json:"content"`
}

// SendTaskCreated posts the enriched task payload to the task webhook.
func (n *Notifier) SendTaskCreated(payload TaskCreatedPayload) error {
	payload.Token = n.token
	return n.post(n.taskURL, payload)
}

// SendUserReply posts a user message to the reply webhook.
func (n *Notifier) SendUserReply(payload UserReplyPayload) error {
	return n.post(n.replyURL, payload)
}

func (n *Notifier) post(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	logger.L().Info("webhook response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
