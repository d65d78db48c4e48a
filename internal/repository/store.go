// internal/repository/store.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/models"
)

// The store interfaces are the remote-collection boundary: the cache reads
// through them and the services write through them. Production uses the
// sqlx repositories below; tests substitute in-memory fakes.

type ProjectStore interface {
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Insert(ctx context.Context, input *ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, input *ProjectUpdateInput) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskStore interface {
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Insert(ctx context.Context, input *TaskInput) (*models.Task, error)
	Update(ctx context.Context, id uuid.UUID, input *TaskUpdateInput) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectUserStore interface {
	List(ctx context.Context, filter ProjectUserFilter) ([]models.ProjectUser, error)
	Insert(ctx context.Context, input *ProjectUserInput) (*models.ProjectUser, error)
	Update(ctx context.Context, id uuid.UUID, input *ProjectUserUpdateInput) (*models.ProjectUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, input *UserInput) (*models.User, error)
}

// List filters. All lists come back ordered by created_at descending.

type ProjectFilter struct {
	OwnerID *uuid.UUID
	Status  *string
}

type TaskFilter struct {
	ProjectID *uuid.UUID
	Status    *string
}

type ProjectUserFilter struct {
	ProjectID *uuid.UUID
}

// Insert inputs.

type ProjectInput struct {
	Name        string
	Description *string
	Repository  *string
	ProjectType string
	OnlineURL   *string
	LocalURL    *string
	Status      string
	OwnerID     uuid.UUID
}

type TaskInput struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *time.Time
	ProjectID   uuid.UUID
}

type ProjectUserInput struct {
	ProjectID uuid.UUID
	Name      string
	Email     string
	Role      string
}

type UserInput struct {
	Email        string
	Name         string
	PasswordHash string
}

// Update inputs. Nil fields are left untouched (merge semantics).

type ProjectUpdateInput struct {
	Name                *string
	Description         *string
	Repository          *string
	ProjectType         *string
	OnlineURL           *string
	LocalURL            *string
	Status              *string
	DatabaseConnected   *bool
	DatabaseTablesCount *int
	LastBackupDate      *time.Time
}

type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

type ProjectUserUpdateInput struct {
	Name  *string
	Email *string
	Role  *string
}
