package repository

import (
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"gorm.io/gorm"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(id uint64) (*models.Department, error) {
	var dept models.Department
	if err := r.db.First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

// FindByName finds a department by its exact name
func (r *GormDepartmentRepository) FindByName(name string) (*models.Department, error) {
	var dept models.Department
	if err := r.db.Where("name = ?", name).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

// FirstOrCreate returns the department with the given name, creating it when absent
func (r *GormDepartmentRepository) FirstOrCreate(name string) (*models.Department, error) {
	var dept models.Department
	if err := r.db.Where(models.Department{Name: name}).
		FirstOrCreate(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}
