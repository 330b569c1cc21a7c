package repository

import (
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks, optionally filtered by status. The list-all view is
// deliberately unscoped by caller identity.
func (r *GormTaskRepository) List(status *models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Order("tasks.created_at DESC")
	if status != nil {
		query = query.Where("tasks.status = ?", *status)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByDepartmentID retrieves all tasks of a department with support members
// and creator preloaded
func (r *GormTaskRepository) ListByDepartmentID(departmentID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("SupportMembers").
		Preload("SupportMembers.User").
		Preload("Creator").
		Where("tasks.department_id = ?", departmentID).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes the task row only. Messages and support rows are left
// behind, accepted limitation.
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// SetResponsible claims a task for a user
func (r *GormTaskRepository) SetResponsible(taskID, userID uint64) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("responsible_user_id", userID).Error
}

// AddSupport inserts a task_support row; a duplicate insert is a no-op
func (r *GormTaskRepository) AddSupport(taskID, userID uint64) error {
	support := models.TaskSupport{TaskID: taskID, UserID: userID}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&support).Error
}

// AddSupportMember inserts a task_support_members row; a duplicate insert is a no-op
func (r *GormTaskRepository) AddSupportMember(taskID, userID uint64) error {
	member := models.TaskSupportMember{TaskID: taskID, UserID: userID}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error
}

// ListSupport lists support rows with the user preloaded
func (r *GormTaskRepository) ListSupport(taskID uint64) ([]models.TaskSupport, error) {
	var support []models.TaskSupport
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Find(&support).Error; err != nil {
		return nil, err
	}
	return support, nil
}
