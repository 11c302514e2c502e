package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

// Listing caps applied when the caller does not specify a limit.
const (
	defaultProjectLimit  = 20
	defaultTaskLimit     = 50
	defaultActivityLimit = 50
)

const entityProject = "project"

type ProjectRepo interface {
	Insert(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	List(ctx context.Context, status *model.ProjectStatus, limit int) ([]model.Project, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Project, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Insert(ctx context.Context, p *model.Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperr.Store("insert", entityProject, err)
	}
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(entityProject, "id=%s", id)
		}
		return nil, apperr.Store("get", entityProject, err)
	}
	return &p, nil
}

func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(entityProject, "slug=%q", slug)
		}
		return nil, apperr.Store("get", entityProject, err)
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, status *model.ProjectStatus, limit int) ([]model.Project, error) {
	if limit <= 0 {
		limit = defaultProjectLimit
	}
	q := r.db.WithContext(ctx).Model(&model.Project{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var items []model.Project
	if err := q.Order("updated_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, apperr.Store("list", entityProject, err)
	}
	return items, nil
}

func (r *projectRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(entityProject, "id=%s", id)
		}
		return nil, apperr.Store("update", entityProject, err)
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&p).Updates(fields).Error; err != nil {
			return nil, apperr.Store("update", entityProject, err)
		}
	}
	return &p, nil
}
