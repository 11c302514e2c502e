package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/agentdesk-io/agentdesk/internal/infra/queue"
	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

// SystemAgent is the actor recorded when a mutating operation did not
// name one.
const SystemAgent = "system"

// RecordInput describes one action by one actor. Context fields are all
// optional; a record with no project or team is still valid.
type RecordInput struct {
	Agent       string
	Action      model.ActivityAction
	Details     map[string]any
	ProjectID   *uuid.UUID
	Team        *string
	RelatedID   *uuid.UUID
	RelatedType *string
}

type ActivityService interface {
	// Record inserts exactly one activity row. A failed insert fails the
	// mutating operation that triggered it; there is no best-effort mode.
	Record(ctx context.Context, in RecordInput) (*model.ActivityLog, error)
	List(ctx context.Context, f repo.ActivityFilter, limit int) ([]model.ActivityLog, error)
}

type activityService struct {
	r   repo.ActivityRepo
	log *zap.Logger
	bc  queue.Broadcaster // nil when broadcast is disabled
}

func NewActivityService(r repo.ActivityRepo, log *zap.Logger, bc queue.Broadcaster) ActivityService {
	return &activityService{r: r, log: log, bc: bc}
}

func (s *activityService) Record(ctx context.Context, in RecordInput) (*model.ActivityLog, error) {
	if in.Action == "" {
		return nil, apperr.Validation("activity action is required")
	}
	agent := strings.ToLower(strings.TrimSpace(in.Agent))
	if agent == "" {
		agent = SystemAgent
	}

	row := &model.ActivityLog{
		Agent:       agent,
		Action:      in.Action,
		Details:     datatypes.JSONMap(in.Details),
		ProjectID:   in.ProjectID,
		Team:        lowerPtr(in.Team),
		RelatedID:   in.RelatedID,
		RelatedType: in.RelatedType,
	}
	if err := s.r.Insert(ctx, row); err != nil {
		return nil, err
	}

	// Broadcast only after the required insert succeeded. Publish faults
	// never fail the operation; the store row is the source of truth.
	if s.bc != nil {
		if body, err := json.Marshal(row); err == nil {
			if err := s.bc.Publish(ctx, "activity."+string(row.Action), body); err != nil {
				s.log.Sugar().Warnw("activity broadcast failed", "action", row.Action, "err", err)
			}
		}
	}

	return row, nil
}

func (s *activityService) List(ctx context.Context, f repo.ActivityFilter, limit int) ([]model.ActivityLog, error) {
	f.Agent = lowerPtr(f.Agent)
	f.Team = lowerPtr(f.Team)
	return s.r.List(ctx, f, limit)
}

// lowerPtr lowercases a team/agent identifier in place, mapping empty
// strings to absent.
func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}
