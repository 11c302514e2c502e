package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

const entityActivity = "activity_log"

// ActivityFilter is a conjunction of equality predicates on the indexed
// activity columns. Nil fields are not applied.
type ActivityFilter struct {
	ProjectID *uuid.UUID
	Agent     *string
	Action    *model.ActivityAction
	Team      *string
}

// ActivityRepo is insert-and-list only. The audit trail has no update or
// delete path.
type ActivityRepo interface {
	Insert(ctx context.Context, a *model.ActivityLog) error
	List(ctx context.Context, f ActivityFilter, limit int) ([]model.ActivityLog, error)
}

type activityRepo struct{ db *gorm.DB }

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &activityRepo{db: db}
}

func (r *activityRepo) Insert(ctx context.Context, a *model.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return apperr.Store("insert", entityActivity, err)
	}
	return nil
}

func (r *activityRepo) List(ctx context.Context, f ActivityFilter, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	q := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.Agent != nil {
		q = q.Where("agent = ?", *f.Agent)
	}
	if f.Action != nil {
		q = q.Where("action = ?", *f.Action)
	}
	if f.Team != nil {
		q = q.Where("team = ?", *f.Team)
	}
	var items []model.ActivityLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, apperr.Store("list", entityActivity, err)
	}
	return items, nil
}
