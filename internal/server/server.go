package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// AuthService produces and verifies caller identities.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// TaskService is the owner-scoped task CRUD core.
type TaskService interface {
	Create(ctx context.Context, callerID string, req models.TaskRequest) (*models.Task, error)
	List(ctx context.Context, callerID string, page, pageSize int) ([]models.Task, models.Pagination, error)
	Get(ctx context.Context, callerID, id string) (*models.Task, error)
	Update(ctx context.Context, callerID, id string, req models.TaskRequest) (*models.Task, error)
	UpdateStatus(ctx context.Context, callerID, id, status string) (*models.Task, error)
	UpdatePriority(ctx context.Context, callerID, id, priority string) (*models.Task, error)
	Delete(ctx context.Context, callerID, id string) error
}

type TaskAPI struct {
	httpSrv *http.Server
	auth    AuthService
	tasks   TaskService
}

func NewTaskAPI(authSvc AuthService, taskSvc TaskService, cfg *Config) *TaskAPI {
	if authSvc == nil || taskSvc == nil {
		return nil
	}

	addr := ":8080"
	if cfg != nil && cfg.Port != 0 {
		addr = fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port)
	}

	api := TaskAPI{
		httpSrv: &http.Server{Addr: addr},
		auth:    authSvc,
		tasks:   taskSvc,
	}
	api.configRoutes()
	return &api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return domainerrors.ErrInternalServer
	}
	return api.httpSrv.ListenAndServe()
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return nil
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) configRoutes() {
	router := gin.Default()
	router.Use(GzipRequestDecompress(), GzipResponseCompress())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Task Management System API"})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", api.register)
		auth.POST("/login", api.login)
		auth.GET("/me", api.requireAuth(), api.me)
	}

	tasks := router.Group("/api/tasks", api.requireAuth())
	{
		tasks.GET("", api.listTasks)
		tasks.POST("", api.createTask)
		tasks.GET(":taskID", api.getTask)
		tasks.PUT(":taskID", api.updateTask)
		tasks.DELETE(":taskID", api.deleteTask)
		tasks.PATCH(":taskID/status", api.updateTaskStatus)
		tasks.PATCH(":taskID/priority", api.updateTaskPriority)
	}

	api.httpSrv.Handler = router
}

// respondError maps the domain error taxonomy to transport status codes.
// Validation payloads keep the full field-to-message map.
func respondError(ctx *gin.Context, err error) {
	var fe domainerrors.FieldErrors
	if errors.As(err, &fe) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fe})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainerrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domainerrors.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, domainerrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainerrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainerrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domainerrors.ErrInfrastructure):
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, gin.H{"success": false, "message": userMessage(err)})
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrValidation):
		return "Validation failed"
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domainerrors.ErrAuth):
		return "Not authorized to access this route"
	case errors.Is(err, domainerrors.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, domainerrors.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, domainerrors.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, domainerrors.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, domainerrors.ErrUsernameTaken):
		return "Username already taken"
	case errors.Is(err, domainerrors.ErrConflict):
		return "Resource conflict"
	case errors.Is(err, domainerrors.ErrForbidden):
		return "Not authorized to access this resource"
	case errors.Is(err, domainerrors.ErrInfrastructure):
		return "Service temporarily unavailable"
	default:
		return "Internal server error"
	}
}
