// internal/repository/project_user_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nmiguel/devpanel/internal/models"
)

const projectUserColumns = `id, project_id, name, email, role, created_at, updated_at`

type ProjectUserRepository struct {
	db *sqlx.DB
}

func NewProjectUserRepository(db *sqlx.DB) *ProjectUserRepository {
	return &ProjectUserRepository{db: db}
}

func (r *ProjectUserRepository) List(ctx context.Context, filter ProjectUserFilter) ([]models.ProjectUser, error) {
	query := `SELECT ` + projectUserColumns + ` FROM project_users`

	var args []interface{}
	if filter.ProjectID != nil {
		query += ` WHERE project_id = $1`
		args = append(args, *filter.ProjectID)
	}
	query += ` ORDER BY created_at DESC`

	users := []models.ProjectUser{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, remoteErr("list project users", err)
	}
	return users, nil
}

func (r *ProjectUserRepository) Insert(ctx context.Context, input *ProjectUserInput) (*models.ProjectUser, error) {
	now := time.Now().UTC()
	user := models.ProjectUser{
		ID:        uuid.New(),
		ProjectID: input.ProjectID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO project_users (id, project_id, name, email, role, created_at, updated_at)
		VALUES (:id, :project_id, :name, :email, :role, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, &user); err != nil {
		return nil, remoteErr("insert project user", err)
	}
	return &user, nil
}

func (r *ProjectUserRepository) Update(ctx context.Context, id uuid.UUID, input *ProjectUserUpdateInput) (*models.ProjectUser, error) {
	b := newUpdateBuilder()
	set(b, "name", input.Name)
	set(b, "email", input.Email)
	set(b, "role", input.Role)

	query, args := b.build("project_users", projectUserColumns, id)

	var user models.ProjectUser
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, remoteErr("update project user", err)
	}
	return &user, nil
}

func (r *ProjectUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_users WHERE id = $1`, id)
	if err != nil {
		return remoteErr("delete project user", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &RemoteError{Op: "delete project user", Err: ErrNotFound}
	}
	return nil
}
