// internal/handler/handler.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/middleware"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/internal/selection"
	"github.com/nmiguel/devpanel/internal/service"
	"github.com/nmiguel/devpanel/pkg/auth"
	"github.com/nmiguel/devpanel/pkg/notify"
)

// Handler wires all HTTP endpoints to the service layer.
type Handler struct {
	log       *logrus.Logger
	auth      *service.AuthService
	projects  *service.ProjectService
	tasks     *service.TaskService
	members   *service.ProjectUserService
	selection *selection.Manager
	center    *notify.Center
	tokens    *auth.TokenManager
}

func New(
	log *logrus.Logger,
	authSvc *service.AuthService,
	projects *service.ProjectService,
	tasks *service.TaskService,
	members *service.ProjectUserService,
	sel *selection.Manager,
	center *notify.Center,
	tokens *auth.TokenManager,
) *Handler {
	return &Handler{
		log:       log,
		auth:      authSvc,
		projects:  projects,
		tasks:     tasks,
		members:   members,
		selection: sel,
		center:    center,
		tokens:    tokens,
	}
}

// RegisterRoutes mounts every endpoint on the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", middleware.Auth(h.tokens), h.Me)
	}

	protected := api.Group("", middleware.Auth(h.tokens))
	{
		protected.GET("/projects", h.ListProjects)
		protected.POST("/projects", h.CreateProject)
		protected.PUT("/projects/:id", h.UpdateProject)
		protected.DELETE("/projects/:id", h.DeleteProject)

		protected.GET("/tasks", h.ListTasks)
		protected.POST("/tasks", h.CreateTask)
		protected.PUT("/tasks/:id", h.UpdateTask)
		protected.DELETE("/tasks/:id", h.DeleteTask)

		protected.GET("/project-users", h.ListProjectUsers)
		protected.POST("/project-users", h.CreateProjectUser)
		protected.PUT("/project-users/:id", h.UpdateProjectUser)
		protected.DELETE("/project-users/:id", h.DeleteProjectUser)

		protected.GET("/selection", h.GetSelection)
		protected.PUT("/selection", h.SetSelection)

		protected.GET("/dashboard/stats", h.DashboardStats)
		protected.GET("/dashboard/pending-tasks", h.PendingTasks)

		protected.GET("/notifications", h.Notifications)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// snapshotBody renders a cache snapshot for the wire. The client uses
// loading and fetched_at to decide whether to poll again.
func snapshotBody[T any](snap cache.Snapshot[T]) gin.H {
	body := gin.H{
		"data":       snap.Data,
		"loading":    snap.Loading,
		"fetched_at": snap.FetchedAt,
	}
	if snap.Err != nil {
		body["error"] = snap.Err.Error()
	}
	return body
}

// respondError maps service and repository errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case repository.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case repository.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, selection.ErrNotInList):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
