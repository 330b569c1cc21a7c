package main

import (
	"log"

	"github.com/agenciafocomkt/internal-platform-api/internal/config"
	"github.com/agenciafocomkt/internal-platform-api/internal/database"
	"github.com/agenciafocomkt/internal-platform-api/internal/handlers"
	"github.com/agenciafocomkt/internal-platform-api/internal/logger"
	"github.com/agenciafocomkt/internal-platform-api/internal/middleware"
	"github.com/agenciafocomkt/internal-platform-api/internal/repository"
	"github.com/agenciafocomkt/internal-platform-api/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Structured logger
	logger.Init(cfg.GinMode)
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	db := database.GetDB()
	identityRepo := repository.NewIdentityRepository(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	notifier := services.NewNotifier(cfg.TaskWebhookURL, cfg.ReplyWebhookURL, cfg.WebhookBearerToken)
	authService := services.NewAuthService(identityRepo, userRepo, deptRepo, cfg.JWTSecret)
	userService := services.NewUserService(userRepo, deptRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, deptRepo, messageRepo, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	setupHandler := handlers.NewSetupHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Internal Platform API is running",
		})
	})

	// One-time bootstrap route for the first admin
	r.POST("/setup/create-initial-admin", setupHandler.CreateInitialAdmin)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(authService), authHandler.GetCurrentUser)
		}

		// User routes
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(authService))
		{
			users.GET("/department/:id", userHandler.GetUsersByDepartment)
			users.GET("/:id/tasks", userHandler.GetUserTasks)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)

			// Admin-only
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.POST("", middleware.RequireAdmin(), userHandler.CreateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
		}

		// Task routes
		tasks := api.Group("/tasks")
		{
			// AI ingress, called by the automation agent without a session
			tasks.POST("/ai/message", taskHandler.AddAIMessage)

			authed := tasks.Group("")
			authed.Use(middleware.RequireAuth(authService))
			{
				authed.POST("", taskHandler.CreateTask)
				authed.GET("", taskHandler.ListTasks)
				authed.GET("/:taskId", taskHandler.GetTask)
				authed.GET("/:taskId/full", taskHandler.GetTaskFull)
				authed.PUT("/:taskId", taskHandler.UpdateTask)
				authed.DELETE("/:taskId", taskHandler.DeleteTask)
				authed.POST("/:taskId/assume", taskHandler.AssumeTask)
				authed.POST("/:taskId/support", taskHandler.AddSupportUser)
				authed.GET("/:taskId/support", taskHandler.GetTaskSupport)
				authed.GET("/:taskId/messages", taskHandler.ListMessages)
				authed.POST("/:taskId/messages", taskHandler.AddMessage)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
