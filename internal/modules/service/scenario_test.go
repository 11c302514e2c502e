package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

var scenarioSeq int

// openTestDB migrates the full schema into a fresh in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	scenarioSeq++
	dsn := fmt.Sprintf("file:scenario%d?mode=memory&cache=shared", scenarioSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Project{}, &model.Task{}, &model.ActivityLog{}))
	return db
}

type fixture struct {
	projects  ProjectService
	tasks     TaskService
	activity  ActivityService
	dashboard DashboardService
	aRepo     repo.ActivityRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	log := zap.NewNop()

	pRepo := repo.NewProjectRepo(db)
	tRepo := repo.NewTaskRepo(db)
	aRepo := repo.NewActivityRepo(db)

	activity := NewActivityService(aRepo, log, nil)
	dashboard := NewDashboardService(pRepo, tRepo, aRepo, log, nil, 15*time.Second)
	return &fixture{
		projects:  NewProjectService(pRepo, activity, dashboard),
		tasks:     NewTaskService(tRepo, activity, dashboard),
		activity:  activity,
		dashboard: dashboard,
		aRepo:     aRepo,
	}
}

func (f *fixture) activityCount(t *testing.T, ctx context.Context) int {
	t.Helper()
	rows, err := f.aRepo.List(ctx, repo.ActivityFilter{}, 1000)
	require.NoError(t, err)
	return len(rows)
}

func TestLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// create project: slug derived from name
	project, err := f.projects.Create(ctx, CreateProjectInput{Name: "Acme Launch", Agent: "ava"})
	require.NoError(t, err)
	assert.Equal(t, "acme-launch", project.Slug)
	assert.Equal(t, model.ProjectPlanning, project.Status)
	assert.Equal(t, 1, f.activityCount(t, ctx))

	// create task: backlog + medium defaults
	task, err := f.tasks.Create(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Design homepage",
		CreatedBy: "ava",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskBacklog, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, 2, f.activityCount(t, ctx))

	// assign: forces todo, lowercases team and agent
	task, err = f.tasks.Assign(ctx, task.ID, "PixelCraft", "Ava", "orchestrator")
	require.NoError(t, err)
	assert.Equal(t, model.TaskTodo, task.Status)
	assert.Equal(t, "pixelcraft", *task.AssignedTeam)
	assert.Equal(t, "ava", *task.AssignedAgent)
	assert.Equal(t, 3, f.activityCount(t, ctx))

	// in_progress stamps started_at
	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskInProgress, "ava", "")
	require.NoError(t, err)
	require.NotNil(t, task.StartedAt)
	startedAt := *task.StartedAt

	// blocked records the reason
	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskBlocked, "ava", "waiting on assets")
	require.NoError(t, err)
	require.NotNil(t, task.BlockerReason)
	assert.Equal(t, "waiting on assets", *task.BlockerReason)
	assert.Nil(t, task.CompletedAt)

	// done clears the blocker and stamps completed_at
	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskDone, "ava", "")
	require.NoError(t, err)
	assert.Nil(t, task.BlockerReason)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, startedAt.Equal(*task.StartedAt), "started_at must survive later transitions")
	assert.Equal(t, 6, f.activityCount(t, ctx))

	// done tasks drop out of the open-workload listings
	mine, err := f.tasks.ListMine(ctx, "ava", false, 0)
	require.NoError(t, err)
	assert.Empty(t, mine)

	mine, err = f.tasks.ListMine(ctx, "AVA", true, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	// dashboard reports the single done task under its team
	dash, err := f.dashboard.ProjectStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.TotalTasks)
	assert.Equal(t, 1, dash.TaskCounts[model.TaskDone])
	assert.Equal(t, map[string]int{"pixelcraft": 1}, dash.TeamCounts)
	assert.NotEmpty(t, dash.RecentActivity)
}

func TestReenteringStatusesKeepsTimestamps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	project, err := f.projects.Create(ctx, CreateProjectInput{Name: "Timestamps"})
	require.NoError(t, err)
	task, err := f.tasks.Create(ctx, CreateTaskInput{ProjectID: project.ID, Title: "once only"})
	require.NoError(t, err)

	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskInProgress, "", "")
	require.NoError(t, err)
	firstStart := *task.StartedAt

	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskDone, "", "")
	require.NoError(t, err)
	firstDone := *task.CompletedAt

	// bounce back through review and re-enter both states
	_, err = f.tasks.SetStatus(ctx, task.ID, model.TaskReview, "", "")
	require.NoError(t, err)
	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskInProgress, "", "")
	require.NoError(t, err)
	assert.True(t, firstStart.Equal(*task.StartedAt))

	task, err = f.tasks.SetStatus(ctx, task.ID, model.TaskDone, "", "")
	require.NoError(t, err)
	assert.True(t, firstDone.Equal(*task.CompletedAt))
}

func TestAssignedListingPriorityOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	project, err := f.projects.Create(ctx, CreateProjectInput{Name: "Ordering"})
	require.NoError(t, err)

	for _, p := range []model.TaskPriority{model.PriorityLow, model.PriorityCritical, model.PriorityHigh} {
		priority := p
		_, err := f.tasks.Create(ctx, CreateTaskInput{
			ProjectID:    project.ID,
			Title:        string(p) + " work",
			Priority:     &priority,
			AssignedTeam: strPtr("core"),
		})
		require.NoError(t, err)
	}

	tasks, err := f.tasks.ListForTeam(ctx, "core", false, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, model.PriorityCritical, tasks[0].Priority)
	assert.Equal(t, model.PriorityHigh, tasks[1].Priority)
	assert.Equal(t, model.PriorityLow, tasks[2].Priority)
}

func TestGetProjectClassificationAgainstStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	project, err := f.projects.Create(ctx, CreateProjectInput{Name: "Lookup Me"})
	require.NoError(t, err)

	byID, err := f.projects.Get(ctx, project.ID.String())
	require.NoError(t, err)
	assert.Equal(t, project.ID, byID.ID)

	bySlug, err := f.projects.Get(ctx, "lookup-me")
	require.NoError(t, err)
	assert.Equal(t, project.ID, bySlug.ID)

	var nfErr *apperr.NotFoundError
	_, err = f.projects.Get(ctx, "123e4567-e89b-12d3-a456-426614174000")
	assert.ErrorAs(t, err, &nfErr)
	_, err = f.projects.Get(ctx, "no-such-slug")
	assert.ErrorAs(t, err, &nfErr)
}

func TestGenericUpdateAppliesStatusSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	project, err := f.projects.Create(ctx, CreateProjectInput{Name: "Patching"})
	require.NoError(t, err)
	task, err := f.tasks.Create(ctx, CreateTaskInput{ProjectID: project.ID, Title: "patch me"})
	require.NoError(t, err)

	done := model.TaskDone
	hours := 3.5
	task, err = f.tasks.Update(ctx, task.ID, UpdateTaskInput{
		Status:      &done,
		ActualHours: &hours,
		UpdatedBy:   "ava",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskDone, task.Status)
	assert.NotNil(t, task.CompletedAt)
	assert.Equal(t, 3.5, *task.ActualHours)
	assert.Equal(t, "ava", task.UpdatedBy)

	// the patch produced the status-named event, not task_updated
	doneAction := model.ActionTaskDone
	rows, err := f.aRepo.List(ctx, repo.ActivityFilter{Action: &doneAction}, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
