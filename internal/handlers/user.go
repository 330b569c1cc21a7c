package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agenciafocomkt/internal-platform-api/internal/dto"
	apierrors "github.com/agenciafocomkt/internal-platform-api/internal/errors"
	"github.com/agenciafocomkt/internal-platform-api/internal/middleware"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/agenciafocomkt/internal-platform-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// UserHandler coordinates user management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all user profiles, paginated.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(params)
	if err != nil {
		apierrors.InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Users: dto.ToUserDTOs(users),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetUser returns a single profile by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser inserts a profile row. Requested "admin" role is downgraded
// unless the creator is an admin.
func (h *UserHandler) CreateUser(c *gin.Context) {
	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateUserRequest struct {
		FirstName  string `json:"first_name" binding:"required"`
		LastName   string `json:"last_name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		CPF        string `json:"cpf" binding:"required"`
		Department string `json:"department" binding:"required"`
		Role       string `json:"role"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "All required fields must be filled")
		return
	}

	user, err := h.userService.CreateUser(claims.Role, services.CreateUserInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		CPF:        req.CPF,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// UpdateUser patches a profile row.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		FirstName  *string `json:"first_name"`
		LastName   *string `json:"last_name"`
		Email      *string `json:"email"`
		CPF        *string `json:"cpf"`
		Department *string `json:"department"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		CPF:        req.CPF,
		Department: req.Department,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a profile row; the identity record is kept.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// GetUserTasks returns the department tasks visible to the user. Lookup
// failures degrade to an empty list.
func (h *UserHandler) GetUserTasks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tasks := h.userService.ListTasksForUser(id)
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetUsersByDepartment returns the users of a department. Requesters may
// only read their own department.
func (h *UserHandler) GetUsersByDepartment(c *gin.Context) {
	deptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claims, exists := middleware.GetAuthUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	users, err := h.userService.ListUsersByDepartment(deptID, claims.UserID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingRequiredField):
		apierrors.MissingField(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDepartmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDepartmentAccessDenied),
		errors.Is(err, services.ErrRequesterNotFound):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
