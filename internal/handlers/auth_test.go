package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenciafocomkt/internal-platform-api/internal/database"
	apierrors "github.com/agenciafocomkt/internal-platform-api/internal/errors"
	"github.com/agenciafocomkt/internal-platform-api/internal/middleware"
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/repository"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Identity{},
		&models.Department{},
		&models.User{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	require.NoError(t, db.Create(&models.Department{Name: "Marketing"}).Error)

	identityRepo := repository.NewIdentityRepository(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	authService := services.NewAuthService(identityRepo, userRepo, deptRepo, "test-secret")
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func registerPayload() map[string]string {
	return map[string]string{
		"firstName":  "Ana",
		"lastName":   "Souza",
		"email":      "ana@example.com",
		"password":   "supersecret",
		"cpf":        "123.456.789-00",
		"department": "Marketing",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	body, err := json.Marshal(registerPayload())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "ana@example.com").First(&user).Error)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotZero(t, user.AuthID)
}

func TestAuthHandler_Register_MissingField(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	for _, field := range []string{"firstName", "lastName", "email", "password", "cpf", "department"} {
		payload := registerPayload()
		delete(payload, field)
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "missing %s", field)
	}

	// No identity and no profile row was created by any of the attempts
	var identityCount, userCount int64
	require.NoError(t, env.db.Model(&models.Identity{}).Count(&identityCount).Error)
	require.NoError(t, env.db.Model(&models.User{}).Count(&userCount).Error)
	require.Zero(t, identityCount)
	require.Zero(t, userCount)
}

func TestAuthHandler_Register_AdminRoleOnlyWhenExplicit(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := registerPayload()
	payload["role"] = "superuser"

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "ana@example.com").First(&user).Error)
	require.Equal(t, models.RoleUser, user.Role)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		FirstName:  "Ana",
		LastName:   "Souza",
		Email:      "ana@example.com",
		Password:   "supersecret",
		CPF:        "123.456.789-00",
		Department: "Marketing",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)
	r.GET("/api/auth/me", middleware.RequireAuth(env.authService), env.handler.GetCurrentUser)

	body, err := json.Marshal(map[string]string{
		"email":    "ana@example.com",
		"password": "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)

	// The token round-trips through the auth middleware
	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+response.Token)
	meW := httptest.NewRecorder()

	r.ServeHTTP(meW, meReq)

	require.Equal(t, http.StatusOK, meW.Code)

	var me struct {
		ID           uint64 `json:"id"`
		Role         string `json:"role"`
		DepartmentID uint64 `json:"department_id"`
	}
	require.NoError(t, json.Unmarshal(meW.Body.Bytes(), &me))
	require.NotZero(t, me.ID)
	require.Equal(t, "user", me.Role)
	require.NotZero(t, me.DepartmentID)
}

func TestAuthHandler_ErrorCodes(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)
	r.POST("/api/auth/login", env.handler.Login)

	post := func(path string, payload any) (*httptest.ResponseRecorder, string) {
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var response struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return w, response.Code
	}

	// A blank-but-present field passes binding and is rejected by the service
	payload := registerPayload()
	payload["firstName"] = "   "
	w, code := post("/api/auth/register", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, apierrors.ErrCodeMissingField, code)

	// First registration succeeds, the duplicate conflicts
	body, err := json.Marshal(registerPayload())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	first := httptest.NewRecorder()
	r.ServeHTTP(first, req)
	require.Equal(t, http.StatusCreated, first.Code)

	w, code = post("/api/auth/register", registerPayload())
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeAlreadyExists, code)

	w, code = post("/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, apierrors.ErrCodeInvalidCredentials, code)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		FirstName:  "Ana",
		LastName:   "Souza",
		Email:      "ana@example.com",
		Password:   "supersecret",
		CPF:        "123.456.789-00",
		Department: "Marketing",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	body, err := json.Marshal(map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_IdentityWithoutProfile(t *testing.T) {
	env := setupAuthTestEnv(t)

	// Identity exists but the profile row is missing
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.Identity{
		Email:        "orphan@example.com",
		PasswordHash: string(hash),
	}).Error)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	body, err := json.Marshal(map[string]string{
		"email":    "orphan@example.com",
		"password": "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupHandler_CreateInitialAdmin(t *testing.T) {
	env := setupAuthTestEnv(t)
	setupHandler := NewSetupHandler(env.authService)

	r := gin.New()
	r.POST("/setup/create-initial-admin", setupHandler.CreateInitialAdmin)

	payload := map[string]string{
		"firstName":  "Root",
		"lastName":   "Admin",
		"email":      "admin@example.com",
		"password":   "supersecret",
		"cpf":        "000.000.000-00",
		"department": "TI",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/setup/create-initial-admin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var admin models.User
	require.NoError(t, env.db.Where("email = ?", "admin@example.com").First(&admin).Error)
	require.Equal(t, models.RoleAdmin, admin.Role)

	// The department was created on the fly
	var dept models.Department
	require.NoError(t, env.db.Where("name = ?", "TI").First(&dept).Error)
	require.Equal(t, dept.ID, admin.DepartmentID)

	// A second call is refused
	req2 := httptest.NewRequest(http.MethodPost, "/setup/create-initial-admin", bytes.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()

	r.ServeHTTP(w2, req2)

	require.Equal(t, http.StatusForbidden, w2.Code)
}
