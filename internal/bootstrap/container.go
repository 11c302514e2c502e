// Package bootstrap wires the process. The store handle, cache client
// and broadcaster are constructed exactly once here and injected; no
// component creates connections lazily.
package bootstrap

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agentdesk-io/agentdesk/internal/config"
	"github.com/agentdesk-io/agentdesk/internal/infra/cache"
	"github.com/agentdesk-io/agentdesk/internal/infra/db"
	"github.com/agentdesk-io/agentdesk/internal/infra/logger"
	"github.com/agentdesk-io/agentdesk/internal/infra/queue"
	"github.com/agentdesk-io/agentdesk/internal/modules/handler"
	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/modules/service"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.AutoMigrate(
				&model.Project{},
				&model.Task{},
				&model.ActivityLog{},
			)
		}
		return d, nil
	})

	// Redis (nil when unconfigured)
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// Activity broadcaster (nil when unconfigured)
	do.Provide(inj, func(i *do.Injector) (queue.Broadcaster, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return queue.NewBroadcaster(cfg)
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TaskRepo, error) {
		return repo.NewTaskRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ActivityRepo, error) {
		return repo.NewActivityRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ActivityService, error) {
		return service.NewActivityService(
			do.MustInvoke[repo.ActivityRepo](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[queue.Broadcaster](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DashboardService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewDashboardService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.TaskRepo](i),
			do.MustInvoke[repo.ActivityRepo](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*redis.Client](i),
			time.Duration(cfg.Dashboard.CacheTTLSec)*time.Second,
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[service.ActivityService](i),
			do.MustInvoke[service.DashboardService](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TaskService, error) {
		return service.NewTaskService(
			do.MustInvoke[repo.TaskRepo](i),
			do.MustInvoke[service.ActivityService](i),
			do.MustInvoke[service.DashboardService](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TaskHandler, error) {
		return handler.NewTaskHandler(do.MustInvoke[service.TaskService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ActivityHandler, error) {
		return handler.NewActivityHandler(do.MustInvoke[service.ActivityService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DashboardHandler, error) {
		return handler.NewDashboardHandler(do.MustInvoke[service.DashboardService](i)), nil
	})

	return inj
}
