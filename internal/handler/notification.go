// internal/handler/notification.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nmiguel/devpanel/internal/middleware"
)

// Notifications returns the caller's recent mutation outcomes, newest
// first.
func (h *Handler) Notifications(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	c.JSON(http.StatusOK, gin.H{"data": h.center.Recent(userID)})
}
