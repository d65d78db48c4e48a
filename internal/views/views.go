// internal/views/views.go
//
// Pure transforms over project and task lists. No state, no I/O: the
// dashboard tiles and groupings read straight from these.
package views

import (
	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/models"
)

// ProjectPendingTasks is one project's slice of still-pending tasks.
type ProjectPendingTasks struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	PendingTasks []models.Task `json:"pending_tasks"`
}

// PendingTasksByProject groups pending tasks under their projects,
// preserving the project list's order. Projects with no pending tasks
// are dropped from the result entirely.
func PendingTasksByProject(projects []models.Project, tasks []models.Task) []ProjectPendingTasks {
	pendingByProject := make(map[uuid.UUID][]models.Task)
	for _, t := range tasks {
		if t.Status == models.TaskStatusPending {
			pendingByProject[t.ProjectID] = append(pendingByProject[t.ProjectID], t)
		}
	}

	result := []ProjectPendingTasks{}
	for _, p := range projects {
		pending, ok := pendingByProject[p.ID]
		if !ok {
			continue
		}
		result = append(result, ProjectPendingTasks{
			ID:           p.ID,
			Name:         p.Name,
			PendingTasks: pending,
		})
	}
	return result
}

// ProjectWithPendingCount decorates a project with its pending-task count.
type ProjectWithPendingCount struct {
	models.Project
	PendingTasksCount int `json:"pending_tasks_count"`
}

// ProjectsWithPendingCounts attaches a pending-task count to every
// project, zero included.
func ProjectsWithPendingCounts(projects []models.Project, tasks []models.Task) []ProjectWithPendingCount {
	counts := make(map[uuid.UUID]int)
	for _, t := range tasks {
		if t.Status == models.TaskStatusPending {
			counts[t.ProjectID]++
		}
	}

	result := make([]ProjectWithPendingCount, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithPendingCount{Project: p, PendingTasksCount: counts[p.ID]}
	}
	return result
}

// ProjectStats are the dashboard's scalar project counts.
type ProjectStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Paused    int `json:"paused"`
	Cancelled int `json:"cancelled"`
	Online    int `json:"online"`
	Local     int `json:"local"`
}

// CountProjects tallies projects by status and type in a single pass.
func CountProjects(projects []models.Project) ProjectStats {
	stats := ProjectStats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectStatusActive:
			stats.Active++
		case models.ProjectStatusCompleted:
			stats.Completed++
		case models.ProjectStatusPaused:
			stats.Paused++
		case models.ProjectStatusCancelled:
			stats.Cancelled++
		}
		switch p.ProjectType {
		case models.ProjectTypeOnline:
			stats.Online++
		case models.ProjectTypeLocal:
			stats.Local++
		}
	}
	return stats
}

// TaskStats are the dashboard's scalar task counts.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// CountTasks tallies tasks by status in a single pass.
func CountTasks(tasks []models.Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusPending:
			stats.Pending++
		case models.TaskStatusInProgress:
			stats.InProgress++
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusOverdue:
			stats.Overdue++
		}
	}
	return stats
}
