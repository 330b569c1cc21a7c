package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agenciafocomkt/internal-platform-api/internal/constants"
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrProfileNotFound      = errors.New("user profile not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrMissingRequiredField = errors.New("all required fields must be filled")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user profile")
	ErrAdminAlreadyExists   = errors.New("an admin account already exists")
)

// Claims is the signed session token payload. It carries the profile id,
// role and department so protected routes can authorize without a lookup.
type Claims struct {
	UserID       uint64          `json:"id"`
	Role         models.UserRole `json:"role"`
	DepartmentID uint64          `json:"department_id"`
	jwt.RegisteredClaims
}

// AuthService handles registration, authentication and token issuing.
type AuthService struct {
	identityRepo repository.IdentityRepository
	userRepo     repository.UserRepository
	deptRepo     repository.DepartmentRepository
	jwtSecret    []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	identityRepo repository.IdentityRepository,
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
		userRepo:     userRepo,
		deptRepo:     deptRepo,
		jwtSecret:    []byte(jwtSecret),
	}
}

// RegisterInput represents the required information to register a user.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	CPF        string
	Department string
	Role       string
}

// Register creates an identity record and then the profile row. The two
// writes are sequential: when the profile insert fails the identity already
// exists and stays orphaned, there is no rollback.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.Password == "" ||
		strings.TrimSpace(input.CPF) == "" ||
		strings.TrimSpace(input.Department) == "" {
		return nil, ErrMissingRequiredField
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.identityRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	dept, err := s.deptRepo.FindByName(input.Department)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to resolve department: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	identity := &models.Identity{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.identityRepo.Create(identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	user := &models.User{
		AuthID:       identity.ID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		CPF:          input.CPF,
		DepartmentID: dept.ID,
		Role:         SafeRole(input.Role),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, ErrFailedToCreateUser
	}

	user.Department = *dept
	return user, nil
}

// Login verifies credentials against the identity store and issues a signed
// token for the matching profile.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	identity, err := s.identityRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByAuthID(identity.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrProfileNotFound
		}
		return "", nil, fmt.Errorf("failed to find profile: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}

// IssueToken signs a session token embedding id, role and department with a
// fixed 7-day expiry.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       user.ID,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken verifies a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// GetUser retrieves a profile by ID with its department resolved.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Department")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateInitialAdmin bootstraps the very first admin account. It refuses to
// run once any admin profile exists, and creates the department when absent.
func (s *AuthService) CreateInitialAdmin(input RegisterInput) (*models.User, error) {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.Password == "" ||
		strings.TrimSpace(input.CPF) == "" ||
		strings.TrimSpace(input.Department) == "" {
		return nil, ErrMissingRequiredField
	}

	admins, err := s.userRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admins: %w", err)
	}
	if admins > 0 {
		return nil, ErrAdminAlreadyExists
	}

	dept, err := s.deptRepo.FirstOrCreate(input.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve department: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	identity := &models.Identity{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.identityRepo.Create(identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	admin := &models.User{
		AuthID:       identity.ID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		CPF:          input.CPF,
		DepartmentID: dept.ID,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, ErrFailedToCreateUser
	}

	admin.Department = *dept
	return admin, nil
}

// SafeRole coerces a requested role: anything other than an explicit "admin"
// becomes "user".
func SafeRole(role string) models.UserRole {
	if role == string(models.RoleAdmin) {
		return models.RoleAdmin
	}
	return models.RoleUser
}
