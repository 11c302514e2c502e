package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

const relatedTypeTask = "task"

type CreateTaskInput struct {
	ProjectID      uuid.UUID
	ParentID       *uuid.UUID
	Title          string
	Description    string
	Priority       *model.TaskPriority
	AssignedTeam   *string
	AssignedAgent  *string
	EstimatedHours *float64
	Tags           []string
	Deliverables   []string
	Metadata       map[string]any
	DueDate        *time.Time
	CreatedBy      string
}

// UpdateTaskInput is a partial patch. A Status in the patch goes through
// the same side-effect table as SetStatus and the resulting activity
// event is the status-named one, so both write paths stay in agreement.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *model.TaskStatus
	Priority       *model.TaskPriority
	AssignedTeam   *string
	AssignedAgent  *string
	EstimatedHours *float64
	ActualHours    *float64
	Tags           []string
	Deliverables   []string
	Metadata       map[string]any
	DueDate        *time.Time
	Notes          string
	UpdatedBy      string
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, f repo.TaskFilter, limit int) ([]model.Task, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	// Assign sets team/agent (lowercased) and forces the task to todo.
	Assign(ctx context.Context, id uuid.UUID, team, agent, actor string) (*model.Task, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus, actor, notes string) (*model.Task, error)
	ListMine(ctx context.Context, agent string, includeDone bool, limit int) ([]model.Task, error)
	ListForTeam(ctx context.Context, team string, includeDone bool, limit int) ([]model.Task, error)
}

type taskService struct {
	r        repo.TaskRepo
	activity ActivityService
	inval    CacheInvalidator
	now      func() time.Time
}

func NewTaskService(r repo.TaskRepo, activity ActivityService, inval CacheInvalidator) TaskService {
	return &taskService{r: r, activity: activity, inval: inval, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	if in.ProjectID == uuid.Nil {
		return nil, apperr.Validation("task project_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("task title is required")
	}
	priority := model.PriorityMedium
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperr.Validation("unknown task priority %q", *in.Priority)
		}
		priority = *in.Priority
	}

	t := &model.Task{
		ProjectID:      in.ProjectID,
		ParentID:       in.ParentID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         model.TaskBacklog,
		Priority:       priority,
		AssignedTeam:   lowerPtr(in.AssignedTeam),
		AssignedAgent:  lowerPtr(in.AssignedAgent),
		EstimatedHours: in.EstimatedHours,
		Tags:           sliceOrEmpty(in.Tags),
		Deliverables:   sliceOrEmpty(in.Deliverables),
		Metadata:       datatypes.JSONMap(in.Metadata),
		DueDate:        in.DueDate,
		CreatedBy:      in.CreatedBy,
	}
	if t.Metadata == nil {
		t.Metadata = datatypes.JSONMap{}
	}
	if err := s.r.Insert(ctx, t); err != nil {
		return nil, err
	}

	if err := s.recordTask(ctx, t, in.CreatedBy, model.ActionTaskCreated, map[string]any{"title": t.Title}); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t.ProjectID)
	return t, nil
}

func (s *taskService) List(ctx context.Context, f repo.TaskFilter, limit int) ([]model.Task, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.Validation("unknown task status %q", *f.Status)
	}
	if f.Priority != nil && !f.Priority.Valid() {
		return nil, apperr.Validation("unknown task priority %q", *f.Priority)
	}
	f.AssignedTeam = lowerPtr(f.AssignedTeam)
	f.AssignedAgent = lowerPtr(f.AssignedAgent)
	return s.r.List(ctx, f, limit)
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	fields := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("task title cannot be empty")
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperr.Validation("unknown task priority %q", *in.Priority)
		}
		fields["priority"] = *in.Priority
	}
	if in.AssignedTeam != nil {
		fields["assigned_team"] = lowerPtr(in.AssignedTeam)
	}
	if in.AssignedAgent != nil {
		fields["assigned_agent"] = lowerPtr(in.AssignedAgent)
	}
	if in.EstimatedHours != nil {
		fields["estimated_hours"] = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		fields["actual_hours"] = *in.ActualHours
	}
	if in.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](in.Tags)
	}
	if in.Deliverables != nil {
		fields["deliverables"] = datatypes.JSONSlice[string](in.Deliverables)
	}
	if in.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(in.Metadata)
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	if in.UpdatedBy != "" {
		fields["updated_by"] = in.UpdatedBy
	}

	action := model.ActionTaskUpdated
	details := map[string]any{}
	if in.Status != nil {
		current, err := s.r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		a, err := s.applyStatus(fields, current, *in.Status, in.Notes)
		if err != nil {
			return nil, err
		}
		action = a
		details["status"] = string(*in.Status)
	}

	t, err := s.r.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	changed := make([]any, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	details["fields"] = changed
	if err := s.recordTask(ctx, t, in.UpdatedBy, action, details); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t.ProjectID)
	return t, nil
}

func (s *taskService) Assign(ctx context.Context, id uuid.UUID, team, agent, actor string) (*model.Task, error) {
	teamPtr := lowerPtr(&team)
	if teamPtr == nil {
		return nil, apperr.Validation("assignment team is required")
	}

	current, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"assigned_team": teamPtr}
	if agentPtr := lowerPtr(&agent); agentPtr != nil {
		fields["assigned_agent"] = agentPtr
	}
	if actor != "" {
		fields["updated_by"] = actor
	}
	// Assignment forces the task onto the board: status becomes todo,
	// with the usual transition side effects.
	if _, err := s.applyStatus(fields, current, model.TaskTodo, ""); err != nil {
		return nil, err
	}

	t, err := s.r.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	details := map[string]any{"team": *teamPtr}
	if t.AssignedAgent != nil {
		details["agent"] = *t.AssignedAgent
	}
	if err := s.recordTask(ctx, t, actor, model.ActionTaskAssigned, details); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t.ProjectID)
	return t, nil
}

func (s *taskService) SetStatus(ctx context.Context, id uuid.UUID, status model.TaskStatus, actor, notes string) (*model.Task, error) {
	current, err := s.r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if actor != "" {
		fields["updated_by"] = actor
	}
	action, err := s.applyStatus(fields, current, status, notes)
	if err != nil {
		return nil, err
	}

	t, err := s.r.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	details := map[string]any{"status": string(status)}
	if notes != "" {
		details["notes"] = notes
	}
	if err := s.recordTask(ctx, t, actor, action, details); err != nil {
		return nil, err
	}
	s.invalidate(ctx, t.ProjectID)
	return t, nil
}

func (s *taskService) ListMine(ctx context.Context, agent string, includeDone bool, limit int) ([]model.Task, error) {
	agentPtr := lowerPtr(&agent)
	if agentPtr == nil {
		return nil, apperr.Validation("agent is required")
	}
	return s.r.ListAssigned(ctx, repo.AssignedFilter{Agent: *agentPtr, IncludeDone: includeDone}, limit)
}

func (s *taskService) ListForTeam(ctx context.Context, team string, includeDone bool, limit int) ([]model.Task, error) {
	teamPtr := lowerPtr(&team)
	if teamPtr == nil {
		return nil, apperr.Validation("team is required")
	}
	return s.r.ListAssigned(ctx, repo.AssignedFilter{Team: *teamPtr, IncludeDone: includeDone}, limit)
}

// applyStatus merges the transition side-effect table into fields:
// started_at stamped once on first entry into in_progress, completed_at
// once on first entry into done, blocker_reason set from notes while
// blocked and cleared on any other status. Returns the status-named
// activity action for the transition.
func (s *taskService) applyStatus(fields map[string]any, current *model.Task, status model.TaskStatus, notes string) (model.ActivityAction, error) {
	action, ok := model.ActionForStatus(status)
	if !ok {
		return "", apperr.Validation("unknown task status %q", status)
	}

	fields["status"] = status
	now := s.now().UTC()
	switch status {
	case model.TaskInProgress:
		if current.StartedAt == nil {
			fields["started_at"] = now
		}
		fields["blocker_reason"] = nil
	case model.TaskDone:
		if current.CompletedAt == nil {
			fields["completed_at"] = now
		}
		fields["blocker_reason"] = nil
	case model.TaskBlocked:
		if notes != "" {
			fields["blocker_reason"] = notes
		}
	default:
		fields["blocker_reason"] = nil
	}
	return action, nil
}

func (s *taskService) recordTask(ctx context.Context, t *model.Task, actor string, action model.ActivityAction, details map[string]any) error {
	related := t.ID
	relatedType := relatedTypeTask
	_, err := s.activity.Record(ctx, RecordInput{
		Agent:       actor,
		Action:      action,
		Details:     details,
		ProjectID:   &t.ProjectID,
		Team:        t.AssignedTeam,
		RelatedID:   &related,
		RelatedType: &relatedType,
	})
	return err
}

func (s *taskService) invalidate(ctx context.Context, projectID uuid.UUID) {
	if s.inval != nil {
		s.inval.Invalidate(ctx, projectID)
	}
}

func sliceOrEmpty(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
