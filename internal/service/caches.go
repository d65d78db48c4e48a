// internal/service/caches.go
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nmiguel/devpanel/internal/cache"
	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
)

// Caches bundles the read-through collections every higher layer reads
// from. The fetchers translate filter keys back into store filters, so
// the cache itself stays ignorant of the schema.
type Caches struct {
	Projects     *cache.Collection[models.Project]
	Tasks        *cache.Collection[models.Task]
	ProjectUsers *cache.Collection[models.ProjectUser]
}

func NewCaches(
	projects repository.ProjectStore,
	tasks repository.TaskStore,
	projectUsers repository.ProjectUserStore,
	log *logrus.Logger,
) *Caches {
	return NewCachesWith(projects, tasks, projectUsers, log, nil, 0)
}

// NewCachesWith wires the collections with an optional snapshot backing
// store and a TTL override (zero keeps the default).
func NewCachesWith(
	projects repository.ProjectStore,
	tasks repository.TaskStore,
	projectUsers repository.ProjectUserStore,
	log *logrus.Logger,
	backing *cache.Backing,
	ttl time.Duration,
) *Caches {
	projectOpts := []cache.Option[models.Project]{}
	taskOpts := []cache.Option[models.Task]{}
	userOpts := []cache.Option[models.ProjectUser]{}
	if backing != nil {
		projectOpts = append(projectOpts, cache.WithBacking[models.Project](backing))
		taskOpts = append(taskOpts, cache.WithBacking[models.Task](backing))
		userOpts = append(userOpts, cache.WithBacking[models.ProjectUser](backing))
	}
	if ttl > 0 {
		projectOpts = append(projectOpts, cache.WithTTL[models.Project](ttl))
		taskOpts = append(taskOpts, cache.WithTTL[models.Task](ttl))
		userOpts = append(userOpts, cache.WithTTL[models.ProjectUser](ttl))
	}

	return &Caches{
		Projects: cache.NewCollection("projects", func(ctx context.Context, key string) ([]models.Project, error) {
			filter := repository.ProjectFilter{}
			if owner, ok := cache.OwnerFrom(key); ok {
				filter.OwnerID = &owner
			}
			return projects.List(ctx, filter)
		}, log, projectOpts...),

		Tasks: cache.NewCollection("tasks", func(ctx context.Context, key string) ([]models.Task, error) {
			filter := repository.TaskFilter{}
			if project, ok := cache.ProjectFrom(key); ok {
				filter.ProjectID = &project
			}
			return tasks.List(ctx, filter)
		}, log, taskOpts...),

		ProjectUsers: cache.NewCollection("project_users", func(ctx context.Context, key string) ([]models.ProjectUser, error) {
			filter := repository.ProjectUserFilter{}
			if project, ok := cache.ProjectFrom(key); ok {
				filter.ProjectID = &project
			}
			return projectUsers.List(ctx, filter)
		}, log, userOpts...),
	}
}
