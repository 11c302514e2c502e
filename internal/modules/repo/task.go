package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

const entityTask = "task"

// priorityOrder fixes the explicit total order critical < high < medium
// < low for assigned-task listings, independent of string collation.
const priorityOrder = "CASE priority " +
	"WHEN 'critical' THEN 0 " +
	"WHEN 'high' THEN 1 " +
	"WHEN 'medium' THEN 2 " +
	"WHEN 'low' THEN 3 " +
	"ELSE 4 END ASC, created_at DESC"

// TaskFilter is a conjunction of equality predicates on indexed columns.
// Nil fields are not applied.
type TaskFilter struct {
	ProjectID     *uuid.UUID
	Status        *model.TaskStatus
	Priority      *model.TaskPriority
	AssignedTeam  *string
	AssignedAgent *string
}

// AssignedFilter selects the open workload of one agent or one team.
// Done tasks are excluded unless IncludeDone is set.
type AssignedFilter struct {
	Agent       string
	Team        string
	IncludeDone bool
}

// TaskDigest is the projection the dashboard aggregates over.
type TaskDigest struct {
	Status       model.TaskStatus   `json:"status"`
	Priority     model.TaskPriority `json:"priority"`
	AssignedTeam *string            `json:"assigned_team,omitempty"`
}

type TaskRepo interface {
	Insert(ctx context.Context, t *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context, f TaskFilter, limit int) ([]model.Task, error)
	ListAssigned(ctx context.Context, f AssignedFilter, limit int) ([]model.Task, error)
	ListDigestsByProject(ctx context.Context, projectID uuid.UUID) ([]TaskDigest, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Task, error)
}

type taskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepo{db: db}
}

func (r *taskRepo) Insert(ctx context.Context, t *model.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return apperr.Store("insert", entityTask, err)
	}
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var t model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(entityTask, "id=%s", id)
		}
		return nil, apperr.Store("get", entityTask, err)
	}
	return &t, nil
}

func (r *taskRepo) List(ctx context.Context, f TaskFilter, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = defaultTaskLimit
	}
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.AssignedTeam != nil {
		q = q.Where("assigned_team = ?", *f.AssignedTeam)
	}
	if f.AssignedAgent != nil {
		q = q.Where("assigned_agent = ?", *f.AssignedAgent)
	}
	var items []model.Task
	if err := q.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, apperr.Store("list", entityTask, err)
	}
	return items, nil
}

func (r *taskRepo) ListAssigned(ctx context.Context, f AssignedFilter, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = defaultTaskLimit
	}
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if f.Agent != "" {
		q = q.Where("assigned_agent = ?", f.Agent)
	}
	if f.Team != "" {
		q = q.Where("assigned_team = ?", f.Team)
	}
	if !f.IncludeDone {
		q = q.Where("status <> ?", model.TaskDone)
	}
	var items []model.Task
	if err := q.Order(priorityOrder).Limit(limit).Find(&items).Error; err != nil {
		return nil, apperr.Store("list", entityTask, err)
	}
	return items, nil
}

func (r *taskRepo) ListDigestsByProject(ctx context.Context, projectID uuid.UUID) ([]TaskDigest, error) {
	var items []TaskDigest
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("status", "priority", "assigned_team").
		Where("project_id = ?", projectID).
		Find(&items).Error
	if err != nil {
		return nil, apperr.Store("list", entityTask, err)
	}
	return items, nil
}

func (r *taskRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Task, error) {
	var t model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(entityTask, "id=%s", id)
		}
		return nil, apperr.Store("update", entityTask, err)
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&t).Updates(fields).Error; err != nil {
			return nil, apperr.Store("update", entityTask, err)
		}
	}
	return &t, nil
}
