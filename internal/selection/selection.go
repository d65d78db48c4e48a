// internal/selection/selection.go
package selection

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/models"
)

// ErrNotInList reports a manual override naming a project absent from the
// currently loaded list.
var ErrNotInList = errors.New("project is not in the current list")

// State owns the current project for one account and re-derives it on
// every new project-list snapshot. Only Apply and SetCurrent write the
// selection; everything else reads.
type State struct {
	mu       sync.Mutex
	current  *models.Project
	projects []models.Project
}

// Apply runs the selection rule against a fresh list snapshot:
//
//  1. empty list: no selection
//  2. nothing selected: first element
//  3. selected id still present: replace with the fresh row
//  4. selected id gone: first element
//
// Running it twice on the same list yields the same selection, and the
// result is always an element of the list (or nil for an empty list).
func (s *State) Apply(projects []models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
	s.current = derive(s.current, projects)
}

func derive(current *models.Project, list []models.Project) *models.Project {
	if len(list) == 0 {
		return nil
	}
	if current == nil {
		return &list[0]
	}
	for i := range list {
		if list[i].ID == current.ID {
			return &list[i]
		}
	}
	return &list[0]
}

// SetCurrent is the manual override. The project must be in the loaded
// list; the override holds until the next list change re-derives.
func (s *State) SetCurrent(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.current = &s.projects[i]
			return nil
		}
	}
	return ErrNotInList
}

// NoteDeleted is the mutation pipeline's delete completion event. The
// deleted row is dropped from the local list immediately so the selection
// never points at a dead id while the refetch is still in flight.
func (s *State) NoteDeleted(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	s.projects = remaining
	s.current = derive(s.current, remaining)
}

// Current returns the selected project, or nil when none is loaded. The
// returned row is shared: callers must not mutate it.
func (s *State) Current() *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Projects returns the last list snapshot the state has seen.
func (s *State) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects
}

// Manager holds one selection State per account, wired to the project
// cache key for that owner.
type Manager struct {
	mu       sync.Mutex
	states   map[uuid.UUID]*State
	projects *cache.Collection[models.Project]
}

func NewManager(projects *cache.Collection[models.Project]) *Manager {
	return &Manager{
		states:   make(map[uuid.UUID]*State),
		projects: projects,
	}
}

// ForOwner returns the selection state for one account, creating and
// subscribing it on first use.
func (m *Manager) ForOwner(owner uuid.UUID) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.states[owner]; ok {
		return s
	}

	s := &State{}
	m.states[owner] = s

	key := cache.ByOwner(owner)
	m.projects.Subscribe(key, func(snap cache.Snapshot[models.Project]) {
		// Nil data means nothing has been fetched yet; clearing the
		// selection on that would violate the "only nil when the list
		// is empty" rule.
		if snap.Err != nil || snap.Data == nil {
			return
		}
		s.Apply(snap.Data)
	})

	// Seed from whatever the cache already knows and kick off the first
	// fetch if it knows nothing.
	if snap := m.projects.Read(key); snap.Data != nil {
		s.Apply(snap.Data)
	}
	return s
}

// NoteDeleted forwards a project deletion to the owner's state, if one
// exists. Pipelines call this on delete success.
func (m *Manager) NoteDeleted(owner, id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.states[owner]
	m.mu.Unlock()
	if ok {
		s.NoteDeleted(id)
	}
}
