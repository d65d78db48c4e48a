package service

// In-memory store fakes shared by the service tests. They mirror the
// sqlx repositories' behavior: merge-on-update, not-found on missing
// rows, copies on every read.

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func notFound(op string) error {
	return &repository.RemoteError{Op: op, Err: repository.ErrNotFound}
}

type fakeProjectStore struct {
	mu      sync.Mutex
	rows    []models.Project
	inserts int
}

func (f *fakeProjectStore) List(_ context.Context, filter repository.ProjectFilter) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Project{}
	for _, p := range f.rows {
		if filter.OwnerID != nil && p.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectStore) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.ID == id {
			row := p
			return &row, nil
		}
	}
	return nil, notFound("get project")
}

func (f *fakeProjectStore) Insert(_ context.Context, input *repository.ProjectInput) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	now := time.Now().UTC()
	p := models.Project{
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
	f.rows = append(f.rows, p)
	return &p, nil
}

func (f *fakeProjectStore) Update(_ context.Context, id uuid.UUID, input *repository.ProjectUpdateInput) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		p := &f.rows[i]
		if input.Name != nil {
			p.Name = *input.Name
		}
		if input.Description != nil {
			p.Description = input.Description
		}
		if input.ProjectType != nil {
			p.ProjectType = *input.ProjectType
		}
		if input.Status != nil {
			p.Status = *input.Status
		}
		if input.DatabaseConnected != nil {
			p.DatabaseConnected = *input.DatabaseConnected
		}
		if input.DatabaseTablesCount != nil {
			p.DatabaseTablesCount = *input.DatabaseTablesCount
		}
		p.UpdatedAt = time.Now().UTC()
		row := *p
		return &row, nil
	}
	return nil, notFound("update project")
}

func (f *fakeProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return notFound("delete project")
}

type fakeTaskStore struct {
	mu      sync.Mutex
	rows    []models.Task
	inserts int
}

func (f *fakeTaskStore) List(_ context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Task{}
	for _, t := range f.rows {
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.ID == id {
			row := t
			return &row, nil
		}
	}
	return nil, notFound("get task")
}

func (f *fakeTaskStore) Insert(_ context.Context, input *repository.TaskInput) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	now := time.Now().UTC()
	t := models.Task{
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
	f.rows = append(f.rows, t)
	return &t, nil
}

func (f *fakeTaskStore) Update(_ context.Context, id uuid.UUID, input *repository.TaskUpdateInput) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		t := &f.rows[i]
		if input.Title != nil {
			t.Title = *input.Title
		}
		if input.Description != nil {
			t.Description = input.Description
		}
		if input.Status != nil {
			t.Status = *input.Status
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		if input.DueDate != nil {
			t.DueDate = input.DueDate
		}
		t.UpdatedAt = time.Now().UTC()
		row := *t
		return &row, nil
	}
	return nil, notFound("update task")
}

func (f *fakeTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return notFound("delete task")
}

type fakeProjectUserStore struct {
	mu      sync.Mutex
	rows    []models.ProjectUser
	inserts int
}

func (f *fakeProjectUserStore) List(_ context.Context, filter repository.ProjectUserFilter) ([]models.ProjectUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ProjectUser{}
	for _, u := range f.rows {
		if filter.ProjectID != nil && u.ProjectID != *filter.ProjectID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeProjectUserStore) Insert(_ context.Context, input *repository.ProjectUserInput) (*models.ProjectUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	now := time.Now().UTC()
	u := models.ProjectUser{
		ID:        uuid.New(),
		ProjectID: input.ProjectID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.rows = append(f.rows, u)
	return &u, nil
}

func (f *fakeProjectUserStore) Update(_ context.Context, id uuid.UUID, input *repository.ProjectUserUpdateInput) (*models.ProjectUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		u := &f.rows[i]
		if input.Name != nil {
			u.Name = *input.Name
		}
		if input.Email != nil {
			u.Email = *input.Email
		}
		if input.Role != nil {
			u.Role = *input.Role
		}
		u.UpdatedAt = time.Now().UTC()
		row := *u
		return &row, nil
	}
	return nil, notFound("update project user")
}

func (f *fakeProjectUserStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return notFound("delete project user")
}

type fakeUserStore struct {
	mu   sync.Mutex
	rows []models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ID == id {
			row := u
			return &row, nil
		}
	}
	return nil, notFound("get user")
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			row := u
			return &row, nil
		}
	}
	return nil, notFound("get user by email")
}

func (f *fakeUserStore) Insert(_ context.Context, input *repository.UserInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	u := models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.rows = append(f.rows, u)
	return &u, nil
}

// newTestCaches wires the fakes behind a fresh cache set.
func newTestCaches(p *fakeProjectStore, t *fakeTaskStore, u *fakeProjectUserStore) *Caches {
	return NewCaches(p, t, u, testLogger())
}
