package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/taskforge/task-system/internal/api/handler"
	"github.com/taskforge/task-system/internal/api/middleware"
	"github.com/taskforge/task-system/internal/core/service"
	"github.com/taskforge/task-system/internal/infrastructure/db/gormdb"
	redisstore "github.com/taskforge/task-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskapi"))

	// --- Dependencies ---
	taskRepo := gormdb.NewTaskRepository(db)
	userRepo := gormdb.NewUserRepository(db)
	idemStore := redisstore.NewIdempotencyStore(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour, log)
	taskService := service.NewTaskService(taskRepo, idemStore, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(authService)

	authMiddleware := middleware.Auth(jwtSecret)

	// --- Public routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)

	// --- Task routes (bearer token required) ---
	tasks := v1.Group("/tasks", authMiddleware)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- User routes (bearer token required) ---
	users := v1.Group("/users", authMiddleware)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.PATCH("/me/password", userHandler.ChangePassword)
	users.GET("", userHandler.List, middleware.Superuser())
	users.DELETE("/:id", userHandler.Delete, middleware.Superuser())

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
