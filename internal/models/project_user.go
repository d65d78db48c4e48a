package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectUser role constants
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ProjectUser is a project-scoped member or contact. It is distinct from
// the authenticated account (models.User).
type ProjectUser struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}
