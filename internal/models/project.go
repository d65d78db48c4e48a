package models

import (
	"time"

	"github.com/google/uuid"
)

// Project status constants
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusPaused    = "paused"
	ProjectStatusCancelled = "cancelled"
)

// Project type constants
const (
	ProjectTypeOnline = "online"
	ProjectTypeLocal  = "local"
)

type Project struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Repository  *string   `db:"repository" json:"repository,omitempty"`
	ProjectType string    `db:"project_type" json:"project_type"`
	OnlineURL   *string   `db:"online_url" json:"online_url,omitempty"`
	LocalURL    *string   `db:"local_url" json:"local_url,omitempty"`
	Status      string    `db:"status" json:"status"`
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Database panel descriptor. Placeholder data, never touched by the
	// mutation pipeline beyond plain column writes.
	DatabaseConnected   bool       `db:"database_connected" json:"database_connected"`
	DatabaseTablesCount int        `db:"database_tables_count" json:"database_tables_count"`
	LastBackupDate      *time.Time `db:"last_backup_date" json:"last_backup_date,omitempty"`
}

// ActiveURL returns the URL that matters for the project's type.
func (p *Project) ActiveURL() string {
	if p.ProjectType == ProjectTypeLocal {
		if p.LocalURL != nil {
			return *p.LocalURL
		}
		return ""
	}
	if p.OnlineURL != nil {
		return *p.OnlineURL
	}
	return ""
}

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusPaused, ProjectStatusCancelled:
		return true
	}
	return false
}

func ValidProjectType(projectType string) bool {
	return projectType == ProjectTypeOnline || projectType == ProjectTypeLocal
}
