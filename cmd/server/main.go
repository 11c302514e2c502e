package main

//	@title			agentdesk API
//	@version		1.0
//	@description	Shared project/task backlog for autonomous agents.
//	@schemes		http https
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Service bearer token (e.g., "Bearer <token>")

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agentdesk-io/agentdesk/internal/bootstrap"
	"github.com/agentdesk-io/agentdesk/internal/config"
	dbpkg "github.com/agentdesk-io/agentdesk/internal/infra/db"
	"github.com/agentdesk-io/agentdesk/internal/infra/queue"
	"github.com/agentdesk-io/agentdesk/internal/modules/handler"
	"github.com/agentdesk-io/agentdesk/internal/router"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	// Missing DSN or service credential is fatal here, before any
	// request is served.
	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := do.MustInvoke[*zap.Logger](inj)

	db, err := do.Invoke[*gorm.DB](inj)
	if err != nil {
		log.Sugar().Fatalw("store connection failed", "err", err)
	}
	rdb := do.MustInvoke[*redis.Client](inj)
	bc, err := do.Invoke[queue.Broadcaster](inj)
	if err != nil {
		log.Sugar().Fatalw("broadcaster connection failed", "err", err)
	}

	// init gin
	gin.SetMode(cfg.App.Env)

	engine := router.NewRouter(router.RouterDeps{
		Config:           cfg,
		Log:              log,
		ProjectHandler:   do.MustInvoke[*handler.ProjectHandler](inj),
		TaskHandler:      do.MustInvoke[*handler.TaskHandler](inj),
		ActivityHandler:  do.MustInvoke[*handler.ActivityHandler](inj),
		DashboardHandler: do.MustInvoke[*handler.DashboardHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}

	if bc != nil {
		if err := bc.Close(); err != nil {
			log.Sugar().Errorw("broadcaster close", "err", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Sugar().Errorw("redis close", "err", err)
		}
	}
	if err := dbpkg.Close(db); err != nil {
		log.Sugar().Errorw("store close", "err", err)
	}
	log.Sugar().Info("server exited")
}
