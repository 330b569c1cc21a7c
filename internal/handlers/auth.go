package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/agenciafocomkt/internal-platform-api/internal/constants"
	"github.com/agenciafocomkt/internal-platform-api/internal/dto"
	apierrors "github.com/agenciafocomkt/internal-platform-api/internal/errors"
	"github.com/agenciafocomkt/internal-platform-api/internal/middleware"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new identity and profile.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		FirstName  string `json:"firstName" binding:"required"`
		LastName   string `json:"lastName" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		CPF        string `json:"cpf" binding:"required"`
		Department string `json:"department" binding:"required"`
		Role       string `json:"role"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "All required fields must be filled")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		CPF:        req.CPF,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// Login authenticates against the identity store and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    dto.ToUserDTO(*user),
	})
}

// GetCurrentUser echoes the identity attached by the token-verification step.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            claims.UserID,
		"role":          claims.Role,
		"department_id": claims.DepartmentID,
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingRequiredField):
		apierrors.MissingField(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrDepartmentNotFound):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminAlreadyExists):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
