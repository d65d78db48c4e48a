// internal/handler/dashboard.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/middleware"
	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/views"
)

// DashboardStats returns the caller's project and task tallies. Both
// collections read through the cache, so the first call after a cold
// start may report loading with empty counts.
func (h *Handler) DashboardStats(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	projectSnap := h.projects.List(userID)
	taskSnap := h.tasks.List(nil)

	owned := ownedTasks(projectSnap.Data, taskSnap.Data)

	c.JSON(http.StatusOK, gin.H{
		"projects": views.CountProjects(projectSnap.Data),
		"tasks":    views.CountTasks(owned),
		"loading":  projectSnap.Loading || taskSnap.Loading,
	})
}

// PendingTasks returns pending tasks grouped by project, dropping
// projects with nothing pending.
func (h *Handler) PendingTasks(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	projectSnap := h.projects.List(userID)
	taskSnap := h.tasks.List(nil)

	c.JSON(http.StatusOK, gin.H{
		"data":    views.PendingTasksByProject(projectSnap.Data, taskSnap.Data),
		"loading": projectSnap.Loading || taskSnap.Loading,
	})
}

// ownedTasks keeps only the tasks belonging to the given projects. The
// task cache is shared across accounts; stats must not leak other
// owners' counts.
func ownedTasks(projects []models.Project, tasks []models.Task) []models.Task {
	ids := make(map[uuid.UUID]struct{}, len(projects))
	for _, p := range projects {
		ids[p.ID] = struct{}{}
	}

	owned := []models.Task{}
	for _, t := range tasks {
		if _, ok := ids[t.ProjectID]; ok {
			owned = append(owned, t)
		}
	}
	return owned
}
