// internal/service/task_service.go
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
	"github.com/nmiguel/devpanel/pkg/notify"
)

type TaskService struct {
	store    repository.TaskStore
	caches   *Caches
	notifier notify.Notifier
}

func NewTaskService(store repository.TaskStore, caches *Caches, notifier notify.Notifier) *TaskService {
	return &TaskService{
		store:    store,
		caches:   caches,
		notifier: notifier,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,notblank"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   uuid.UUID  `json:"project_id" binding:"required"`
	// Status is accepted on the wire but deliberately ignored: new tasks
	// always start out pending.
	Status string `json:"status"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// List reads tasks through the cache, either all of them or one
// project's.
func (s *TaskService) List(projectID *uuid.UUID) cache.Snapshot[models.Task] {
	key := cache.All
	if projectID != nil {
		key = cache.ByProject(*projectID)
	}
	return s.caches.Tasks.Read(key)
}

// CreateTask validates and writes a new task. Whatever status the caller
// supplied, the persisted task is pending.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, s.fail(userID, "create", required("title"))
	}
	if req.ProjectID == uuid.Nil {
		return nil, s.fail(userID, "create", required("project_id"))
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, s.fail(userID, "create", invalid("priority", priority))
	}

	task, err := s.store.Insert(ctx, &repository.TaskInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      models.TaskStatusPending,
		Priority:    priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		return nil, s.fail(userID, "create", err)
	}

	s.invalidate(task.ProjectID)
	s.notifier.Notify(userID, notify.Outcome{
		OK: true, Entity: "task", Action: "create",
		Message: "Task created successfully",
	})
	return task, nil
}

// UpdateTask applies a partial update, including the pending/completed
// toggle from the task checkbox.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id uuid.UUID, req *UpdateTaskRequest) (*models.Task, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, s.fail(userID, "update", required("title"))
	}
	if req.Status != nil && !models.ValidTaskStatus(*req.Status) {
		return nil, s.fail(userID, "update", invalid("status", *req.Status))
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		return nil, s.fail(userID, "update", invalid("priority", *req.Priority))
	}

	task, err := s.store.Update(ctx, id, &repository.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, s.fail(userID, "update", err)
	}

	s.invalidate(task.ProjectID)
	s.notifier.Notify(userID, notify.Outcome{
		OK: true, Entity: "task", Action: "update",
		Message: "Task updated successfully",
	})
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return s.fail(userID, "delete", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(userID, "delete", err)
	}

	s.invalidate(task.ProjectID)
	s.notifier.Notify(userID, notify.Outcome{
		OK: true, Entity: "task", Action: "delete",
		Message: "Task removed successfully",
	})
	return nil
}

// invalidate refreshes every cached task list plus the per-project key,
// which may not have been read yet.
func (s *TaskService) invalidate(projectID uuid.UUID) {
	s.caches.Tasks.InvalidateAll()
	s.caches.Tasks.Invalidate(cache.ByProject(projectID))
}

func (s *TaskService) fail(userID uuid.UUID, action string, err error) error {
	s.notifier.Notify(userID, notify.Outcome{
		Entity: "task", Action: action,
		Message: fmt.Sprintf("Failed to %s task: %v", action, err),
	})
	return err
}
