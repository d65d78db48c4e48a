package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/internal/selection"
	"github.com/nmiguel/devpanel/pkg/notify"
)

func newProjectService(store *fakeProjectStore) (*ProjectService, *Caches, *selection.Manager, *notify.Recorder) {
	caches := newTestCaches(store, &fakeTaskStore{}, &fakeProjectUserStore{})
	sel := selection.NewManager(caches.Projects)
	recorder := notify.NewRecorder()
	return NewProjectService(store, caches, sel, recorder), caches, sel, recorder
}

func TestCreateProject_Defaults(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, _, recorder := newProjectService(store)
	owner := uuid.New()

	project, err := svc.CreateProject(context.Background(), owner, &CreateProjectRequest{
		Name: "  My Project  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "My Project", project.Name)
	assert.Equal(t, models.ProjectTypeOnline, project.ProjectType)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
	assert.Equal(t, owner, project.OwnerID)

	assert.Equal(t, 1, recorder.Count())
	assert.True(t, recorder.Last().OK)
	assert.Equal(t, "project", recorder.Last().Entity)
}

func TestCreateProject_ValidationNeverReachesStore(t *testing.T) {
	tests := []struct {
		name string
		req  CreateProjectRequest
	}{
		{name: "blank name", req: CreateProjectRequest{Name: "   "}},
		{name: "bad type", req: CreateProjectRequest{Name: "p", ProjectType: "hybrid"}},
		{name: "bad status", req: CreateProjectRequest{Name: "p", Status: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeProjectStore{}
			svc, _, _, recorder := newProjectService(store)

			_, err := svc.CreateProject(context.Background(), uuid.New(), &tt.req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			assert.Equal(t, 0, store.inserts, "validation failures must not hit the store")
			assert.Equal(t, 1, recorder.Count(), "exactly one failure outcome")
			assert.False(t, recorder.Last().OK)
		})
	}
}

func TestUpdateProject_Partial(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, _, recorder := newProjectService(store)
	owner := uuid.New()

	created, err := svc.CreateProject(context.Background(), owner, &CreateProjectRequest{Name: "keep-name"})
	require.NoError(t, err)

	status := models.ProjectStatusCompleted
	updated, err := svc.UpdateProject(context.Background(), owner, created.ID, &UpdateProjectRequest{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "keep-name", updated.Name, "unspecified fields stay untouched")
	assert.Equal(t, models.ProjectStatusCompleted, updated.Status)
	assert.Equal(t, 2, recorder.Count())
	assert.True(t, recorder.Last().OK)
}

func TestUpdateProject_DatabasePanel(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, _, _ := newProjectService(store)
	owner := uuid.New()

	created, err := svc.CreateProject(context.Background(), owner, &CreateProjectRequest{Name: "db"})
	require.NoError(t, err)

	connected := true
	tables := 12
	updated, err := svc.UpdateProject(context.Background(), owner, created.ID, &UpdateProjectRequest{
		DatabaseConnected:   &connected,
		DatabaseTablesCount: &tables,
	})
	require.NoError(t, err)

	assert.True(t, updated.DatabaseConnected)
	assert.Equal(t, 12, updated.DatabaseTablesCount)
}

func TestUpdateProject_NotFound(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, _, recorder := newProjectService(store)

	name := "x"
	_, err := svc.UpdateProject(context.Background(), uuid.New(), uuid.New(), &UpdateProjectRequest{
		Name: &name,
	})
	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
	assert.Equal(t, 1, recorder.Count())
	assert.False(t, recorder.Last().OK)
}

func TestDeleteProject_MovesSelection(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, sel, recorder := newProjectService(store)
	owner := uuid.New()

	first, err := svc.CreateProject(context.Background(), owner, &CreateProjectRequest{Name: "first"})
	require.NoError(t, err)
	second, err := svc.CreateProject(context.Background(), owner, &CreateProjectRequest{Name: "second"})
	require.NoError(t, err)

	state := sel.ForOwner(owner)
	require.Eventually(t, func() bool {
		return state.Current() != nil
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, state.SetCurrent(second.ID))
	require.NoError(t, svc.DeleteProject(context.Background(), owner, second.ID))

	// The selection moves before the refetch lands.
	current := state.Current()
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)

	assert.True(t, recorder.Last().OK)
	assert.Equal(t, "delete", recorder.Last().Action)
}

func TestDeleteProject_NotFound(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, _, recorder := newProjectService(store)

	err := svc.DeleteProject(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
	assert.Equal(t, 1, recorder.Count())
}

func TestList_RefetchesAfterMutation(t *testing.T) {
	store := &fakeProjectStore{}
	svc, _, _, _ := newProjectService(store)
	owner := uuid.New()

	// Warm the cache before any project exists.
	svc.List(owner)
	require.Eventually(t, func() bool {
		snap := svc.List(owner)
		return !snap.Loading && snap.Data != nil
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, svc.List(owner).Data)

	_, err := svc.CreateProject(context.Background(), owner, &CreateProjectRequest{Name: "p"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(svc.List(owner).Data) == 1
	}, time.Second, 5*time.Millisecond)
}
