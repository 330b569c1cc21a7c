package repository

import (
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/utils"
)

// IdentityRepository defines the interface for the credential store
type IdentityRepository interface {
	// Create creates a new identity record
	Create(identity *models.Identity) error

	// FindByEmail finds an identity by email
	FindByEmail(email string) (*models.Identity, error)
}

// UserRepository defines the interface for user profile data access
type UserRepository interface {
	// Create creates a new profile row
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByAuthID finds a user by its identity reference
	FindByAuthID(authID uint64) (*models.User, error)

	// List retrieves one page of users together with the total count
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// CountByRole counts users holding the given role
	CountByRole(role models.UserRole) (int64, error)

	// ListByDepartmentID retrieves users of one department
	ListByDepartmentID(departmentID uint64) ([]models.User, error)

	// Update updates a profile row
	Update(user *models.User) error

	// Delete removes the profile row; the identity record is kept
	Delete(id uint64) error
}

// DepartmentRepository defines the interface for department lookups
type DepartmentRepository interface {
	// FindByID finds a department by ID
	FindByID(id uint64) (*models.Department, error)

	// FindByName finds a department by its exact name
	FindByName(name string) (*models.Department, error)

	// FirstOrCreate returns the department with the given name, creating it
	// when absent
	FirstOrCreate(name string) (*models.Department, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks, optionally filtered by status
	List(status *models.TaskStatus) ([]models.Task, error)

	// ListByDepartmentID retrieves all tasks of a department with support
	// members and creator preloaded
	ListByDepartmentID(departmentID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes the task row only; messages and support rows are
	// left behind
	Delete(id uint64) error

	// SetResponsible claims a task for a user
	SetResponsible(taskID, userID uint64) error

	// AddSupport inserts a task_support row; duplicates are a no-op
	AddSupport(taskID, userID uint64) error

	// AddSupportMember inserts a task_support_members row; duplicates are a no-op
	AddSupportMember(taskID, userID uint64) error

	// ListSupport lists support rows with the user preloaded
	ListSupport(taskID uint64) ([]models.TaskSupport, error)
}

// MessageRepository defines the interface for task message data access
type MessageRepository interface {
	// Create appends a message
	Create(message *models.Message) error

	// ListByTaskID lists messages of a task ordered by creation time
	ListByTaskID(taskID uint64) ([]models.Message, error)
}
