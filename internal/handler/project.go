// internal/handler/project.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/middleware"
	"github.com/nmiguel/devpanel/internal/service"
)

// ListProjects returns the caller's project list snapshot. A stale or
// missing snapshot triggers a background refetch; the response is
// whatever the cache holds right now.
func (h *Handler) ListProjects(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	c.JSON(http.StatusOK, snapshotBody(h.projects.List(userID)))
}

// CreateProject creates a project owned by the caller.
func (h *Handler) CreateProject(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial update.
func (h *Handler) UpdateProject(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and everything under it.
func (h *Handler) DeleteProject(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSelection returns the caller's currently selected project.
func (h *Handler) GetSelection(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	state := h.selection.ForOwner(userID)
	c.JSON(http.StatusOK, gin.H{"current": state.Current()})
}

type setSelectionRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
}

// SetSelection manually selects a project from the loaded list.
func (h *Handler) SetSelection(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req setSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := h.selection.ForOwner(userID)
	if err := state.SetCurrent(req.ProjectID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": state.Current()})
}
