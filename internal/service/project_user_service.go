// internal/service/project_user_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/pkg/notify"
)

type ProjectUserService struct {
	store    repository.ProjectUserStore
	caches   *Caches
	notifier notify.Notifier
}

func NewProjectUserService(store repository.ProjectUserStore, caches *Caches, notifier notify.Notifier) *ProjectUserService {
	return &ProjectUserService{
		store:    store,
		caches:   caches,
		notifier: notifier,
	}
}

type CreateProjectUserRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	Name      string    `json:"name" binding:"required,notblank"`
	Email     string    `json:"email" binding:"required,notblank"`
	Role      string    `json:"role" binding:"omitempty,oneof=user admin editor viewer"`
}

type UpdateProjectUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// List reads one project's members through the cache.
func (s *ProjectUserService) List(projectID uuid.UUID) cache.Snapshot[models.ProjectUser] {
	return s.caches.ProjectUsers.Read(cache.ByProject(projectID))
}

// CreateProjectUser adds a member to a project. Email uniqueness is not
// enforced; duplicates are allowed.
func (s *ProjectUserService) CreateProjectUser(ctx context.Context, userID uuid.UUID, req *CreateProjectUserRequest) (*models.ProjectUser, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, s.fail(userID, "create", required("name"))
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, s.fail(userID, "create", required("email"))
	}
	if req.ProjectID == uuid.Nil {
		return nil, s.fail(userID, "create", required("project_id"))
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, s.fail(userID, "create", invalid("role", role))
	}

	member, err := s.store.Insert(ctx, &repository.ProjectUserInput{
		ProjectID: req.ProjectID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Role:      role,
	})
	if err != nil {
		return nil, s.fail(userID, "create", err)
	}

	s.caches.ProjectUsers.InvalidateAll()
	s.notifier.Notify(userID, notify.Outcome{
		OK: true, Entity: "user", Action: "create",
		Message: "User added successfully",
	})
	return member, nil
}

func (s *ProjectUserService) UpdateProjectUser(ctx context.Context, userID, id uuid.UUID, req *UpdateProjectUserRequest) (*models.ProjectUser, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, s.fail(userID, "update", required("name"))
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return nil, s.fail(userID, "update", required("email"))
	}
	if req.Role != nil && !models.ValidRole(*req.Role) {
		return nil, s.fail(userID, "update", invalid("role", *req.Role))
	}

	member, err := s.store.Update(ctx, id, &repository.ProjectUserUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return nil, s.fail(userID, "update", err)
	}

	s.caches.ProjectUsers.InvalidateAll()
	s.notifier.Notify(userID, notify.Outcome{
		OK: true, Entity: "user", Action: "update",
		Message: "User updated successfully",
	})
	return member, nil
}

func (s *ProjectUserService) DeleteProjectUser(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(userID, "delete", err)
	}

	s.caches.ProjectUsers.InvalidateAll()
	s.notifier.Notify(userID, notify.Outcome{
		OK: true, Entity: "user", Action: "delete",
		Message: "User removed successfully",
	})
	return nil
}

func (s *ProjectUserService) fail(userID uuid.UUID, action string, err error) error {
	s.notifier.Notify(userID, notify.Outcome{
		Entity: "user", Action: action,
		Message: fmt.Sprintf("Failed to %s user: %v", action, err),
	})
	return err
}
