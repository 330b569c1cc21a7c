package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agenciafocomkt/internal-platform-api/internal/constants"
	"github.com/agenciafocomkt/internal-platform-api/internal/database"
	"github.com/agenciafocomkt/internal-platform-api/internal/models"
	"github.com/agenciafocomkt/internal-platform-api/internal/repository"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type UserHandlerTestSuite struct {
	suite.Suite
	db         *gorm.DB
	handler    *UserHandler
	nextAuthID uint64
}

func (suite *UserHandlerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Task{},
		&models.TaskSupport{},
		&models.TaskSupportMember{},
	)
	suite.Require().NoError(err)

	database.SetDB(db)
	suite.db = db

	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	userService := services.NewUserService(userRepo, deptRepo, taskRepo)
	suite.handler = NewUserHandler(userService)
}

func (suite *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserHandlerTestSuite) createDepartment(name string) *models.Department {
	dept := &models.Department{Name: name}
	suite.Require().NoError(suite.db.Create(dept).Error)
	return dept
}

func (suite *UserHandlerTestSuite) createUser(email string, deptID uint64, role models.UserRole) *models.User {
	suite.nextAuthID++
	user := &models.User{
		AuthID:       suite.nextAuthID,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		CPF:          "123.456.789-00",
		DepartmentID: deptID,
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *UserHandlerTestSuite) authContext(method, path string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyAuthUser, &services.Claims{
		UserID:       user.ID,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	})
	return c, w
}

// TestListUsers_Paginated tests that the listing pages through results and
// reports the pagination metadata
func (suite *UserHandlerTestSuite) TestListUsers_Paginated() {
	dept := suite.createDepartment("Marketing")
	admin := suite.createUser("admin@example.com", dept.ID, models.RoleAdmin)
	suite.createUser("second@example.com", dept.ID, models.RoleUser)
	suite.createUser("third@example.com", dept.ID, models.RoleUser)

	c, w := suite.authContext("GET", "/api/users", nil, admin)
	c.Request.URL.RawQuery = "page=2&limit=2"
	suite.handler.ListUsers(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Users      []map[string]interface{} `json:"users"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))

	assert.Len(suite.T(), response.Users, 1)
	assert.Equal(suite.T(), "third@example.com", response.Users[0]["email"])
	assert.Equal(suite.T(), 2, response.Pagination.Page)
	assert.Equal(suite.T(), 2, response.Pagination.Limit)
	assert.Equal(suite.T(), int64(3), response.Pagination.Total)
}

// TestCreateUser_AdminRoleOnlyFromAdmin tests that an "admin" role request
// from a non-admin creator is stored as "user"
func (suite *UserHandlerTestSuite) TestCreateUser_AdminRoleOnlyFromAdmin() {
	dept := suite.createDepartment("Marketing")
	creator := suite.createUser("creator@example.com", dept.ID, models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{
		"first_name": "New",
		"last_name":  "Hire",
		"email":      "hire@example.com",
		"cpf":        "987.654.321-00",
		"department": "Marketing",
		"role":       "admin",
	})

	c, w := suite.authContext("POST", "/api/users", body, creator)
	suite.handler.CreateUser(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var stored models.User
	suite.Require().NoError(suite.db.Where("email = ?", "hire@example.com").First(&stored).Error)
	assert.Equal(suite.T(), models.RoleUser, stored.Role)
}

// TestCreateUser_AdminCreatorKeepsRole tests that an admin creator may
// grant the admin role
func (suite *UserHandlerTestSuite) TestCreateUser_AdminCreatorKeepsRole() {
	dept := suite.createDepartment("Marketing")
	admin := suite.createUser("admin@example.com", dept.ID, models.RoleAdmin)

	body, _ := json.Marshal(map[string]interface{}{
		"first_name": "New",
		"last_name":  "Admin",
		"email":      "newadmin@example.com",
		"cpf":        "987.654.321-00",
		"department": "Marketing",
		"role":       "admin",
	})

	c, w := suite.authContext("POST", "/api/users", body, admin)
	suite.handler.CreateUser(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var stored models.User
	suite.Require().NoError(suite.db.Where("email = ?", "newadmin@example.com").First(&stored).Error)
	assert.Equal(suite.T(), models.RoleAdmin, stored.Role)
}

// TestUpdateUser_PartialPatch tests that omitted fields are left untouched
func (suite *UserHandlerTestSuite) TestUpdateUser_PartialPatch() {
	dept := suite.createDepartment("Marketing")
	user := suite.createUser("user@example.com", dept.ID, models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{"first_name": "Renamed"})
	c, w := suite.authContext("PUT", "/api/users/1", body, user)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", user.ID)}}
	suite.handler.UpdateUser(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, user.ID).Error)
	assert.Equal(suite.T(), "Renamed", reloaded.FirstName)
	assert.Equal(suite.T(), "User", reloaded.LastName)
	assert.Equal(suite.T(), "user@example.com", reloaded.Email)
}

// TestDeleteUser_ProfileOnly tests that deletion soft-removes the profile
func (suite *UserHandlerTestSuite) TestDeleteUser_ProfileOnly() {
	dept := suite.createDepartment("Marketing")
	admin := suite.createUser("admin@example.com", dept.ID, models.RoleAdmin)
	victim := suite.createUser("victim@example.com", dept.ID, models.RoleUser)

	c, w := suite.authContext("DELETE", "/api/users/2", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", victim.ID)}}
	suite.handler.DeleteUser(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.User{}).Where("id = ?", victim.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)

	// the row survives as a soft-deleted record
	suite.db.Unscoped().Model(&models.User{}).Where("id = ?", victim.ID).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestGetUsersByDepartment_OwnDepartment tests the happy path
func (suite *UserHandlerTestSuite) TestGetUsersByDepartment_OwnDepartment() {
	dept := suite.createDepartment("Marketing")
	requester := suite.createUser("requester@example.com", dept.ID, models.RoleUser)
	suite.createUser("peer@example.com", dept.ID, models.RoleUser)

	c, w := suite.authContext("GET", "/api/users/department/1", nil, requester)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", dept.ID)}}
	suite.handler.GetUsersByDepartment(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var users []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(suite.T(), users, 2)
}

// TestGetUsersByDepartment_OtherDepartment tests the scoping rule
func (suite *UserHandlerTestSuite) TestGetUsersByDepartment_OtherDepartment() {
	marketing := suite.createDepartment("Marketing")
	finance := suite.createDepartment("Finance")
	requester := suite.createUser("requester@example.com", marketing.ID, models.RoleUser)
	suite.createUser("treasurer@example.com", finance.ID, models.RoleUser)

	c, w := suite.authContext("GET", "/api/users/department/2", nil, requester)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", finance.ID)}}
	suite.handler.GetUsersByDepartment(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetUsersByDepartment_UnknownDepartment tests the 404 path
func (suite *UserHandlerTestSuite) TestGetUsersByDepartment_UnknownDepartment() {
	dept := suite.createDepartment("Marketing")
	requester := suite.createUser("requester@example.com", dept.ID, models.RoleUser)

	c, w := suite.authContext("GET", "/api/users/department/99", nil, requester)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	suite.handler.GetUsersByDepartment(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetUserTasks_Visibility tests the department task filter: unassigned
// tasks, tasks the user is responsible for and tasks the user supports are
// visible; tasks claimed by others are not
func (suite *UserHandlerTestSuite) TestGetUserTasks_Visibility() {
	dept := suite.createDepartment("Marketing")
	viewer := suite.createUser("viewer@example.com", dept.ID, models.RoleUser)
	other := suite.createUser("other@example.com", dept.ID, models.RoleUser)

	newTask := func(title string, responsible *uint64) *models.Task {
		task := &models.Task{
			Title:             title,
			Status:            models.TaskStatusNew,
			CreatedBy:         other.ID,
			DepartmentID:      dept.ID,
			ResponsibleUserID: responsible,
		}
		suite.Require().NoError(suite.db.Create(task).Error)
		return task
	}

	newTask("unassigned", nil)
	newTask("mine", &viewer.ID)
	supported := newTask("supported", &other.ID)
	newTask("theirs", &other.ID)

	suite.Require().NoError(suite.db.Create(&models.TaskSupportMember{
		TaskID: supported.ID,
		UserID: viewer.ID,
	}).Error)

	c, w := suite.authContext("GET", "/api/users/1/tasks", nil, viewer)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", viewer.ID)}}
	suite.handler.GetUserTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))

	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task["title"].(string))
	}
	assert.ElementsMatch(suite.T(), []string{"unassigned", "mine", "supported"}, titles)
}

// TestGetUserTasks_FailOpen tests that lookup failures degrade to an empty
// list instead of an error
func (suite *UserHandlerTestSuite) TestGetUserTasks_FailOpen() {
	dept := suite.createDepartment("Marketing")
	viewer := suite.createUser("viewer@example.com", dept.ID, models.RoleUser)

	suite.Require().NoError(suite.db.Migrator().DropTable(&models.Task{}))

	c, w := suite.authContext("GET", "/api/users/1/tasks", nil, viewer)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", viewer.ID)}}
	suite.handler.GetUserTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Empty(suite.T(), tasks)
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
