package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agenciafocomkt/internal-platform-api/internal/logger"
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/repository"
	"github.com/agenciafocomkt/internal-platform-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDepartmentAccessDenied = errors.New("access to this department is denied")
	ErrRequesterNotFound      = errors.New("requesting user not found")
)

// UserService handles user management business logic.
type UserService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
	taskRepo repository.TaskRepository
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	taskRepo repository.TaskRepository,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		deptRepo: deptRepo,
		taskRepo: taskRepo,
	}
}

// ListUsers returns one page of user profiles and the total count.
func (s *UserService) ListUsers(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser retrieves a profile by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Department")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents input for creating a profile row directly.
type CreateUserInput struct {
	FirstName  string
	LastName   string
	Email      string
	CPF        string
	Department string
	Role       string
}

// CreateUser inserts a profile row. A requested "admin" role is downgraded
// to "user" unless the creator is an admin.
func (s *UserService) CreateUser(creatorRole models.UserRole, input CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.CPF) == "" ||
		strings.TrimSpace(input.Department) == "" {
		return nil, ErrMissingRequiredField
	}

	dept, err := s.deptRepo.FindByName(input.Department)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to resolve department: %w", err)
	}

	role := SafeRole(input.Role)
	if role == models.RoleAdmin && creatorRole != models.RoleAdmin {
		role = models.RoleUser
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		CPF:          input.CPF,
		DepartmentID: dept.ID,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Department = *dept
	return user, nil
}

// UpdateUserInput represents a partial profile update.
type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	CPF        *string
	Department *string
}

// UpdateUser patches a profile row.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.CPF != nil {
		user.CPF = *input.CPF
	}
	if input.Department != nil {
		dept, err := s.deptRepo.FindByName(*input.Department)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to resolve department: %w", err)
		}
		user.DepartmentID = dept.ID
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.userRepo.FindByID(user.ID, "Department")
}

// DeleteUser removes the profile row. The identity record in the credential
// store is never deleted.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListUsersByDepartment returns the users of a department. The requester may
// only read their own department.
func (s *UserService) ListUsersByDepartment(departmentID, requesterID uint64) ([]models.User, error) {
	if _, err := s.deptRepo.FindByID(departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}

	requester, err := s.userRepo.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequesterNotFound
		}
		return nil, fmt.Errorf("failed to find requester: %w", err)
	}

	if requester.DepartmentID != departmentID {
		return nil, ErrDepartmentAccessDenied
	}

	return s.userRepo.ListByDepartmentID(departmentID)
}

// ListTasksForUser returns the department tasks visible to a user: a task is
// visible when unassigned, when the user is the responsible, or when the
// user appears among the support members. Lookup failures are logged and an
// empty list is returned instead of an error; the "my tasks" view degrades
// to empty rather than breaking.
func (s *UserService) ListTasksForUser(userID uint64) []models.Task {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.L().Warn("my-tasks lookup failed: user",
			zap.Uint64("user_id", userID), zap.Error(err))
		return []models.Task{}
	}

	if _, err := s.deptRepo.FindByID(user.DepartmentID); err != nil {
		logger.L().Warn("my-tasks lookup failed: department",
			zap.Uint64("department_id", user.DepartmentID), zap.Error(err))
		return []models.Task{}
	}

	tasks, err := s.taskRepo.ListByDepartmentID(user.DepartmentID)
	if err != nil {
		logger.L().Warn("my-tasks lookup failed: tasks",
			zap.Uint64("department_id", user.DepartmentID), zap.Error(err))
		return []models.Task{}
	}

	visible := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if isTaskVisibleTo(task, userID) {
			visible = append(visible, task)
		}
	}
	return visible
}

func isTaskVisibleTo(task models.Task, userID uint64) bool {
	if task.ResponsibleUserID == nil {
		return true
	}
	if *task.ResponsibleUserID == userID {
		return true
	}
	for _, member := range task.SupportMembers {
		if member.UserID == userID {
			return true
		}
	}
	return false
}
