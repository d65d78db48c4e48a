// internal/handler/project_user.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/middleware"
	"github.com/nmiguel/devpanel/internal/service"
)

// ListProjectUsers returns one project's member list snapshot.
func (h *Handler) ListProjectUsers(c *gin.Context) {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}

	c.JSON(http.StatusOK, snapshotBody(h.members.List(projectID)))
}

// CreateProjectUser adds a member to a project.
func (h *Handler) CreateProjectUser(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.CreateProjectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.members.CreateProjectUser(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateProjectUser applies a partial update to a member.
func (h *Handler) UpdateProjectUser(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	var req service.UpdateProjectUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.members.UpdateProjectUser(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteProjectUser removes a member from a project.
func (h *Handler) DeleteProjectUser(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	if err := h.members.DeleteProjectUser(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
