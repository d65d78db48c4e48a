// internal/repository/task_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nmiguel/devpanel/internal/models"
)

const taskColumns = `id, title, description, status, priority, due_date, project_id, created_at, updated_at`

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	var conds []string
	var args []interface{}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, remoteErr("list tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, remoteErr("get task", err)
	}
	return &task, nil
}

func (r *TaskRepository) Insert(ctx context.Context, input *TaskInput) (*models.Task, error) {
	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `INSERT INTO tasks (id, title, description, status, priority, due_date, project_id, created_at, updated_at)
		VALUES (:id, :title, :description, :status, :priority, :due_date, :project_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, &task); err != nil {
		return nil, remoteErr("insert task", err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, input *TaskUpdateInput) (*models.Task, error) {
	b := newUpdateBuilder()
	set(b, "title", input.Title)
	set(b, "description", input.Description)
	set(b, "status", input.Status)
	set(b, "priority", input.Priority)
	set(b, "due_date", input.DueDate)

	query, args := b.build("tasks", taskColumns, id)

	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, args...); err != nil {
		return nil, remoteErr("update task", err)
	}
	return &task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return remoteErr("delete task", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &RemoteError{Op: "delete task", Err: ErrNotFound}
	}
	return nil
}
