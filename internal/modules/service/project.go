package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
	"github.com/agentdesk-io/agentdesk/internal/pkg/slug"
)

// CacheInvalidator drops a project's cached dashboard after a mutation.
// Satisfied by the dashboard service; nil disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, projectID uuid.UUID)
}

type CreateProjectInput struct {
	Name        string
	Description string
	Template    string
	Autonomous  bool
	Agent       string
}

// UpdateProjectInput is a partial patch. Nil fields are left untouched;
// a new Name regenerates the slug.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *model.ProjectStatus
	Settings    map[string]any
	Metadata    map[string]any
	TechStack   map[string]any
	Agent       string
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	// Get accepts either a store-native UUID or a slug.
	Get(ctx context.Context, identifier string) (*model.Project, error)
	List(ctx context.Context, status *model.ProjectStatus, limit int) ([]model.Project, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*model.Project, error)
}

type projectService struct {
	r        repo.ProjectRepo
	activity ActivityService
	inval    CacheInvalidator
}

func NewProjectService(r repo.ProjectRepo, activity ActivityService, inval CacheInvalidator) ProjectService {
	return &projectService{r: r, activity: activity, inval: inval}
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	sl := slug.Make(in.Name)
	if sl == "" {
		return nil, apperr.Validation("project name must contain at least one alphanumeric character")
	}

	settings := datatypes.JSONMap{}
	if in.Template != "" {
		settings["template"] = in.Template
	}
	if in.Autonomous {
		settings["autonomous"] = true
	}

	p := &model.Project{
		Name:        in.Name,
		Slug:        sl,
		Description: in.Description,
		Status:      model.ProjectPlanning,
		Settings:    settings,
		Metadata:    datatypes.JSONMap{},
		TechStack:   datatypes.JSONMap{},
	}
	if err := s.r.Insert(ctx, p); err != nil {
		return nil, err
	}

	_, err := s.activity.Record(ctx, RecordInput{
		Agent:     in.Agent,
		Action:    model.ActionProjectCreated,
		Details:   map[string]any{"name": p.Name, "slug": p.Slug},
		ProjectID: &p.ID,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, identifier string) (*model.Project, error) {
	if identifier == "" {
		return nil, apperr.Validation("project identifier is required")
	}
	if slug.IsUUID(identifier) {
		id, err := uuid.Parse(identifier)
		if err != nil {
			return nil, apperr.Validation("malformed project id %q", identifier)
		}
		return s.r.GetByID(ctx, id)
	}
	return s.r.GetBySlug(ctx, identifier)
}

func (s *projectService) List(ctx context.Context, status *model.ProjectStatus, limit int) ([]model.Project, error) {
	if status != nil && !status.Valid() {
		return nil, apperr.Validation("unknown project status %q", *status)
	}
	return s.r.List(ctx, status, limit)
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	fields := map[string]any{}
	if in.Name != nil {
		sl := slug.Make(*in.Name)
		if sl == "" {
			return nil, apperr.Validation("project name must contain at least one alphanumeric character")
		}
		fields["name"] = *in.Name
		fields["slug"] = sl
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation("unknown project status %q", *in.Status)
		}
		fields["status"] = *in.Status
	}
	if in.Settings != nil {
		fields["settings"] = datatypes.JSONMap(in.Settings)
	}
	if in.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(in.Metadata)
	}
	if in.TechStack != nil {
		fields["tech_stack"] = datatypes.JSONMap(in.TechStack)
	}

	p, err := s.r.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	changed := make([]any, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	_, err = s.activity.Record(ctx, RecordInput{
		Agent:     in.Agent,
		Action:    model.ActionProjectUpdated,
		Details:   map[string]any{"fields": changed},
		ProjectID: &p.ID,
	})
	if err != nil {
		return nil, err
	}

	if s.inval != nil {
		s.inval.Invalidate(ctx, p.ID)
	}
	return p, nil
}
