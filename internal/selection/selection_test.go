package selection

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/models"
)

func proj(name string) models.Project {
	return models.Project{ID: uuid.New(), Name: name}
}

func TestApply_SelectionRule(t *testing.T) {
	a, b, c := proj("a"), proj("b"), proj("c")

	tests := []struct {
		name    string
		current *models.Project
		list    []models.Project
		want    *uuid.UUID
	}{
		{
			name:    "empty list clears selection",
			current: &a,
			list:    []models.Project{},
			want:    nil,
		},
		{
			name:    "no selection picks first",
			current: nil,
			list:    []models.Project{b, c},
			want:    &b.ID,
		},
		{
			name:    "selected id still present keeps it",
			current: &b,
			list:    []models.Project{a, b, c},
			want:    &b.ID,
		},
		{
			name:    "selected id gone falls back to first",
			current: &b,
			list:    []models.Project{a, c},
			want:    &a.ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{current: tt.current}
			s.Apply(tt.list)

			got := s.Current()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, got.ID)
		})
	}
}

func TestApply_PicksFreshRow(t *testing.T) {
	stale := proj("before")
	fresh := stale
	fresh.Name = "after"

	s := &State{}
	s.Apply([]models.Project{stale})
	s.Apply([]models.Project{fresh})

	got := s.Current()
	require.NotNil(t, got)
	assert.Equal(t, "after", got.Name)
}

func TestApply_Deterministic(t *testing.T) {
	a, b := proj("a"), proj("b")
	list := []models.Project{a, b}

	s := &State{}
	s.Apply(list)
	first := s.Current()
	s.Apply(list)
	second := s.Current()

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
}

func TestSetCurrent(t *testing.T) {
	a, b := proj("a"), proj("b")

	s := &State{}
	s.Apply([]models.Project{a, b})

	require.NoError(t, s.SetCurrent(b.ID))
	assert.Equal(t, b.ID, s.Current().ID)

	err := s.SetCurrent(uuid.New())
	assert.ErrorIs(t, err, ErrNotInList)
	assert.Equal(t, b.ID, s.Current().ID, "failed override leaves selection alone")
}

func TestNoteDeleted(t *testing.T) {
	a, b, c := proj("a"), proj("b"), proj("c")

	s := &State{}
	s.Apply([]models.Project{a, b, c})
	require.NoError(t, s.SetCurrent(b.ID))

	// Deleting the current project falls back immediately, before any
	// refetch lands.
	s.NoteDeleted(b.ID)
	require.NotNil(t, s.Current())
	assert.Equal(t, a.ID, s.Current().ID)

	// Deleting a non-selected project changes nothing.
	s.NoteDeleted(c.ID)
	assert.Equal(t, a.ID, s.Current().ID)

	s.NoteDeleted(a.ID)
	assert.Nil(t, s.Current())
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestManager_FollowsCache(t *testing.T) {
	owner := uuid.New()
	first := models.Project{ID: uuid.New(), Name: "first", OwnerID: owner}

	var mu sync.Mutex
	rows := []models.Project{first}

	projects := cache.NewCollection("projects", func(ctx context.Context, key string) ([]models.Project, error) {
		mu.Lock()
		defer mu.Unlock()
		out := make([]models.Project, len(rows))
		copy(out, rows)
		return out, nil
	}, testLogger())

	m := NewManager(projects)
	state := m.ForOwner(owner)

	require.Eventually(t, func() bool {
		return state.Current() != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, first.ID, state.Current().ID)

	// A new first element does not steal the selection while the
	// selected project is still listed.
	second := models.Project{ID: uuid.New(), Name: "second", OwnerID: owner}
	mu.Lock()
	rows = []models.Project{second, first}
	mu.Unlock()
	projects.Invalidate(cache.ByOwner(owner))

	require.Eventually(t, func() bool {
		return len(state.Projects()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, first.ID, state.Current().ID)
}

func TestManager_ErrorSnapshotLeavesSelection(t *testing.T) {
	owner := uuid.New()
	p := models.Project{ID: uuid.New(), Name: "p", OwnerID: owner}

	var mu sync.Mutex
	var failing bool

	projects := cache.NewCollection("projects", func(ctx context.Context, key string) ([]models.Project, error) {
		mu.Lock()
		defer mu.Unlock()
		if failing {
			return nil, errors.New("remote down")
		}
		return []models.Project{p}, nil
	}, testLogger())

	m := NewManager(projects)
	state := m.ForOwner(owner)

	require.Eventually(t, func() bool {
		return state.Current() != nil
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	failing = true
	mu.Unlock()
	projects.Invalidate(cache.ByOwner(owner))

	require.Eventually(t, func() bool {
		return projects.Read(cache.ByOwner(owner)).Err != nil
	}, time.Second, 5*time.Millisecond)

	require.NotNil(t, state.Current())
	assert.Equal(t, p.ID, state.Current().ID)
}

func TestManager_NoteDeletedUnknownOwner(t *testing.T) {
	projects := cache.NewCollection("projects", func(ctx context.Context, key string) ([]models.Project, error) {
		return []models.Project{}, nil
	}, testLogger())

	m := NewManager(projects)
	// No state exists for this owner; must not panic.
	m.NoteDeleted(uuid.New(), uuid.New())
}
