// internal/repository/project_repository.go
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

const projectColumns = `id, name, description, repository, project_type, online_url, local_url,
	status, owner_id, created_at, updated_at,
	database_connected, database_tables_count, last_backup_date`

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`

	var conds []string
	var args []interface{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	projects := []models.Project{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, remoteErr("list projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, remoteErr("get project", err)
	}
	return &project, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, input *ProjectInput) (*models.Project, error) {
	now := time.Now().UTC()
	project := models.Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Repository:  input.Repository,
		ProjectType: input.ProjectType,
		OnlineURL:   input.OnlineURL,
		LocalURL:    input.LocalURL,
		Status:      input.Status,
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `INSERT INTO projects (id, name, description, repository, project_type, online_url, local_url,
			status, owner_id, created_at, updated_at)
		VALUES (:id, :name, :description, :repository, :project_type, :online_url, :local_url,
			:status, :owner_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, &project); err != nil {
		return nil, remoteErr("insert project", err)
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, input *ProjectUpdateInput) (*models.Project, error) {
	b := newUpdateBuilder()
	set(b, "name", input.Name)
	set(b, "description", input.Description)
	set(b, "repository", input.Repository)
	set(b, "project_type", input.ProjectType)
	set(b, "online_url", input.OnlineURL)
	set(b, "local_url", input.LocalURL)
	set(b, "status", input.Status)
	set(b, "database_connected", input.DatabaseConnected)
	set(b, "database_tables_count", input.DatabaseTablesCount)
	set(b, "last_backup_date", input.LastBackupDate)

	query, args := b.build("projects", projectColumns, id)

	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, args...); err != nil {
		return nil, remoteErr("update project", err)
	}
	return &project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return remoteErr("delete project", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &RemoteError{Op: "delete project", Err: ErrNotFound}
	}
	return nil
}
