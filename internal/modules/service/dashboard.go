package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
)

// Rows of activity shown on a project dashboard.
const dashboardActivityLimit = 10

// ProjectDashboard joins a project's current record, its tasks' status
// and team distribution, and its most recent activity.
type ProjectDashboard struct {
	Project *model.Project `json:"project"`
	// TotalTasks counts every task, including those with no team.
	TotalTasks int `json:"total_tasks"`
	TaskCounts map[model.TaskStatus]int `json:"task_counts"`
	// TeamCounts excludes tasks with no assigned team.
	TeamCounts     map[string]int      `json:"team_counts"`
	RecentActivity []model.ActivityLog `json:"recent_activity"`
}

type DashboardService interface {
	// ProjectStatus is a pure read: no writes, no activity emitted. Any
	// failing fetch fails the whole call; no partial dashboard is served.
	ProjectStatus(ctx context.Context, projectID uuid.UUID) (*ProjectDashboard, error)
	Invalidate(ctx context.Context, projectID uuid.UUID)
}

type dashboardService struct {
	projects repo.ProjectRepo
	tasks    repo.TaskRepo
	activity repo.ActivityRepo
	log      *zap.Logger
	rdb      *redis.Client // nil when caching is disabled
	ttl      time.Duration
}

func NewDashboardService(projects repo.ProjectRepo, tasks repo.TaskRepo, activity repo.ActivityRepo, log *zap.Logger, rdb *redis.Client, ttl time.Duration) DashboardService {
	return &dashboardService{projects: projects, tasks: tasks, activity: activity, log: log, rdb: rdb, ttl: ttl}
}

func dashboardKey(projectID uuid.UUID) string { return "dashboard:" + projectID.String() }

func (s *dashboardService) ProjectStatus(ctx context.Context, projectID uuid.UUID) (*ProjectDashboard, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardKey(projectID)).Bytes(); err == nil {
			var cached ProjectDashboard
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// The auxiliary fetches read disjoint data and may run concurrently;
	// if either fails the other's result is discarded.
	var (
		digests []repo.TaskDigest
		recent  []model.ActivityLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		digests, err = s.tasks.ListDigestsByProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.activity.List(gctx, repo.ActivityFilter{ProjectID: &projectID}, dashboardActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash := &ProjectDashboard{
		Project:        project,
		TaskCounts:     map[model.TaskStatus]int{},
		TeamCounts:     map[string]int{},
		RecentActivity: recent,
	}
	for _, d := range digests {
		dash.TotalTasks++
		dash.TaskCounts[d.Status]++
		if d.AssignedTeam != nil && *d.AssignedTeam != "" {
			dash.TeamCounts[*d.AssignedTeam]++
		}
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(dash); err == nil {
			if err := s.rdb.Set(ctx, dashboardKey(projectID), raw, s.ttl).Err(); err != nil {
				s.log.Sugar().Debugw("dashboard cache set failed", "project_id", projectID, "err", err)
			}
		}
	}
	return dash, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, projectID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, dashboardKey(projectID)).Err(); err != nil {
		s.log.Sugar().Debugw("dashboard cache invalidate failed", "project_id", projectID, "err", err)
	}
}
