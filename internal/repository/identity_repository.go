package repository

import (
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"gorm.io/gorm"
)

// GormIdentityRepository is a GORM implementation of IdentityRepository
type GormIdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &GormIdentityRepository{db: db}
}

// Create creates a new identity record
func (r *GormIdentityRepository) Create(identity *models.Identity) error {
	return r.db.Create(identity).Error
}

// FindByEmail finds an identity by email
func (r *GormIdentityRepository) FindByEmail(email string) (*models.Identity, error) {
	var identity models.Identity
	if err := r.db.Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}
