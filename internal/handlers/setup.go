package handlers

import (
	"net/http"

	"github.com/agenciafocomkt/internal-platform-api/internal/dto"
	apierrors "github.com/agenciafocomkt/internal-platform-api/internal/errors"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupHandler serves the one-time bootstrap route.
type SetupHandler struct {
	authService *services.AuthService
}

// NewSetupHandler creates a new SetupHandler.
func NewSetupHandler(authService *services.AuthService) *SetupHandler {
	return &SetupHandler{
		authService: authService,
	}
}

// CreateInitialAdmin creates the first admin account. Refuses once an admin
// exists.
func (h *SetupHandler) CreateInitialAdmin(c *gin.Context) {
	type InitialAdminRequest struct {
		FirstName  string `json:"firstName" binding:"required"`
		LastName   string `json:"lastName" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		CPF        string `json:"cpf" binding:"required"`
		Department string `json:"department" binding:"required"`
	}

	var req InitialAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "All required fields must be filled")
		return
	}

	admin, err := h.authService.CreateInitialAdmin(services.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		CPF:        req.CPF,
		Department: req.Department,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Initial admin created successfully",
		"admin":   dto.ToUserDTO(*admin),
	})
}
