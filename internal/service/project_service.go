// internal/service/project_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/internal/selection"
	"github.com/nmiguel/devpanel/pkg/notify"
)

type ProjectService struct {
	store     repository.ProjectStore
	caches    *Caches
	selection *selection.Manager
	notifier  notify.Notifier
}

func NewProjectService(store repository.ProjectStore, caches *Caches, sel *selection.Manager, notifier notify.Notifier) *ProjectService {
	return &ProjectService{
		store:     store,
		caches:    caches,
		selection: sel,
		notifier:  notifier,
	}
}

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,notblank"`
	Description *string `json:"description"`
	Repository  *string `json:"repository"`
	ProjectType string  `json:"project_type" binding:"omitempty,oneof=online local"`
	OnlineURL   *string `json:"online_url"`
	LocalURL    *string `json:"local_url"`
	Status      string  `json:"status" binding:"omitempty,oneof=active completed paused cancelled"`
}

type UpdateProjectRequest struct {
	Name                *string    `json:"name"`
	Description         *string    `json:"description"`
	Repository          *string    `json:"repository"`
	ProjectType         *string    `json:"project_type"`
	OnlineURL           *string    `json:"online_url"`
	LocalURL            *string    `json:"local_url"`
	Status              *string    `json:"status"`
	DatabaseConnected   *bool      `json:"database_connected"`
	DatabaseTablesCount *int       `json:"database_tables_count"`
	LastBackupDate      *time.Time `json:"last_backup_date"`
}

// List reads the owner's project list through the cache.
func (s *ProjectService) List(ownerID uuid.UUID) cache.Snapshot[models.Project] {
	return s.caches.Projects.Read(cache.ByOwner(ownerID))
}

// CreateProject validates, writes, invalidates and reports. Validation
// failures never reach the store.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID uuid.UUID, req *CreateProjectRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, s.fail(ownerID, "project", "create", required("name"))
	}

	projectType := req.ProjectType
	if projectType == "" {
		projectType = models.ProjectTypeOnline
	}
	if !models.ValidProjectType(projectType) {
		return nil, s.fail(ownerID, "project", "create", invalid("project_type", projectType))
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !models.ValidProjectStatus(status) {
		return nil, s.fail(ownerID, "project", "create", invalid("status", status))
	}

	project, err := s.store.Insert(ctx, &repository.ProjectInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Repository:  req.Repository,
		ProjectType: projectType,
		OnlineURL:   req.OnlineURL,
		LocalURL:    req.LocalURL,
		Status:      status,
		OwnerID:     ownerID,
	})
	if err != nil {
		return nil, s.fail(ownerID, "project", "create", err)
	}

	s.caches.Projects.InvalidateAll()
	s.notifier.Notify(ownerID, notify.Outcome{
		OK: true, Entity: "project", Action: "create",
		Message: "Project created successfully",
	})
	return project, nil
}

// UpdateProject applies a partial update. Unspecified fields stay as they
// are; the id not being in any cached list is fine.
func (s *ProjectService) UpdateProject(ctx context.Context, ownerID, id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, s.fail(ownerID, "project", "update", required("name"))
	}
	if req.ProjectType != nil && !models.ValidProjectType(*req.ProjectType) {
		return nil, s.fail(ownerID, "project", "update", invalid("project_type", *req.ProjectType))
	}
	if req.Status != nil && !models.ValidProjectStatus(*req.Status) {
		return nil, s.fail(ownerID, "project", "update", invalid("status", *req.Status))
	}

	project, err := s.store.Update(ctx, id, &repository.ProjectUpdateInput{
		Name:                req.Name,
		Description:         req.Description,
		Repository:          req.Repository,
		ProjectType:         req.ProjectType,
		OnlineURL:           req.OnlineURL,
		LocalURL:            req.LocalURL,
		Status:              req.Status,
		DatabaseConnected:   req.DatabaseConnected,
		DatabaseTablesCount: req.DatabaseTablesCount,
		LastBackupDate:      req.LastBackupDate,
	})
	if err != nil {
		return nil, s.fail(ownerID, "project", "update", err)
	}

	s.caches.Projects.InvalidateAll()
	s.notifier.Notify(ownerID, notify.Outcome{
		OK: true, Entity: "project", Action: "update",
		Message: "Project updated successfully",
	})
	return project, nil
}

// DeleteProject removes the project. The store cascades to its tasks and
// members, so their collections are invalidated too, and the selection
// context is told right away in case the deleted project was current.
func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(ownerID, "project", "delete", err)
	}

	s.caches.Projects.InvalidateAll()
	s.caches.Tasks.InvalidateAll()
	s.caches.ProjectUsers.InvalidateAll()
	s.selection.NoteDeleted(ownerID, id)

	s.notifier.Notify(ownerID, notify.Outcome{
		OK: true, Entity: "project", Action: "delete",
		Message: "Project removed successfully",
	})
	return nil
}

func (s *ProjectService) fail(userID uuid.UUID, entity, action string, err error) error {
	s.notifier.Notify(userID, notify.Outcome{
		Entity: entity, Action: action,
		Message: fmt.Sprintf("Failed to %s %s: %v", action, entity, err),
	})
	return err
}
