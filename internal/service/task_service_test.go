package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/pkg/notify"
)

func newTaskService(store *fakeTaskStore) (*TaskService, *notify.Recorder) {
	caches := newTestCaches(&fakeProjectStore{}, store, &fakeProjectUserStore{})
	recorder := notify.NewRecorder()
	return NewTaskService(store, caches, recorder), recorder
}

func TestCreateTask_AlwaysStartsPending(t *testing.T) {
	store := &fakeTaskStore{}
	svc, recorder := newTaskService(store)

	task, err := svc.CreateTask(context.Background(), uuid.New(), &CreateTaskRequest{
		Title:     "write docs",
		ProjectID: uuid.New(),
		Status:    models.TaskStatusCompleted, // ignored
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority, "priority defaults to medium")
	assert.Equal(t, 1, recorder.Count())
	assert.True(t, recorder.Last().OK)
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTaskRequest
	}{
		{name: "blank title", req: CreateTaskRequest{Title: " ", ProjectID: uuid.New()}},
		{name: "missing project", req: CreateTaskRequest{Title: "t"}},
		{name: "bad priority", req: CreateTaskRequest{Title: "t", ProjectID: uuid.New(), Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}
			svc, recorder := newTaskService(store)

			_, err := svc.CreateTask(context.Background(), uuid.New(), &tt.req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, 0, store.inserts)
			assert.Equal(t, 1, recorder.Count())
			assert.False(t, recorder.Last().OK)
		})
	}
}

func TestUpdateTask_StatusToggle(t *testing.T) {
	store := &fakeTaskStore{}
	svc, recorder := newTaskService(store)
	user := uuid.New()

	created, err := svc.CreateTask(context.Background(), user, &CreateTaskRequest{
		Title:     "toggle me",
		ProjectID: uuid.New(),
	})
	require.NoError(t, err)

	done := models.TaskStatusCompleted
	updated, err := svc.UpdateTask(context.Background(), user, created.ID, &UpdateTaskRequest{
		Status: &done,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.Equal(t, "toggle me", updated.Title)
	assert.Equal(t, 2, recorder.Count())
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	store := &fakeTaskStore{}
	svc, recorder := newTaskService(store)

	bad := "done"
	_, err := svc.UpdateTask(context.Background(), uuid.New(), uuid.New(), &UpdateTaskRequest{
		Status: &bad,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1, recorder.Count())
}

func TestDeleteTask(t *testing.T) {
	store := &fakeTaskStore{}
	svc, recorder := newTaskService(store)
	user := uuid.New()

	created, err := svc.CreateTask(context.Background(), user, &CreateTaskRequest{
		Title:     "short lived",
		ProjectID: uuid.New(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(context.Background(), user, created.ID))
	assert.Empty(t, store.rows)
	assert.True(t, recorder.Last().OK)

	err = svc.DeleteTask(context.Background(), user, created.ID)
	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
	assert.False(t, recorder.Last().OK)
}
