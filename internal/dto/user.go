package dto

import (
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/utils"
)

// UserDTO represents a user in API responses. The department name is
// resolved here, at the presentation boundary; storage and comparisons use
// the department id.
type UserDTO struct {
	ID           uint64          `json:"id"`
	AuthID       uint64          `json:"auth_id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	CPF          string          `json:"cpf"`
	DepartmentID uint64          `json:"department_id"`
	Department   string          `json:"department,omitempty"`
	Role         models.UserRole `json:"role"`
}

// UserSummaryDTO is the minimal user shape embedded in task views.
type UserSummaryDTO struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UserListResponse is a paginated list of users.
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		AuthID:       user.AuthID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		CPF:          user.CPF,
		DepartmentID: user.DepartmentID,
		Department:   user.Department.Name,
		Role:         user.Role,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
