package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/pkg/apperr"
)

func TestActivityService_Record_DefaultsAgentToSystem(t *testing.T) {
	activityRepo := new(MockActivityRepo)
	svc := NewActivityService(activityRepo, zap.NewNop(), nil)

	activityRepo.On("Insert", mock.Anything, mock.MatchedBy(func(a *model.ActivityLog) bool {
		return a.Agent == SystemAgent && a.Action == model.ActionTaskCreated
	})).Return(nil)

	row, err := svc.Record(context.Background(), RecordInput{Action: model.ActionTaskCreated})
	assert.NoError(t, err)
	assert.Equal(t, SystemAgent, row.Agent)
	activityRepo.AssertExpectations(t)
}

func TestActivityService_Record_LowercasesActorAndTeam(t *testing.T) {
	activityRepo := new(MockActivityRepo)
	svc := NewActivityService(activityRepo, zap.NewNop(), nil)

	team := "PixelCraft"
	activityRepo.On("Insert", mock.Anything, mock.MatchedBy(func(a *model.ActivityLog) bool {
		return a.Agent == "ava" && a.Team != nil && *a.Team == "pixelcraft"
	})).Return(nil)

	_, err := svc.Record(context.Background(), RecordInput{Agent: "Ava", Action: model.ActionTaskAssigned, Team: &team})
	assert.NoError(t, err)
	activityRepo.AssertExpectations(t)
}

func TestActivityService_Record_RequiresAction(t *testing.T) {
	svc := NewActivityService(new(MockActivityRepo), zap.NewNop(), nil)

	_, err := svc.Record(context.Background(), RecordInput{Agent: "ava"})
	var vErr *apperr.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestActivityService_Record_InsertFailurePropagates(t *testing.T) {
	activityRepo := new(MockActivityRepo)
	bc := new(MockBroadcaster)
	svc := NewActivityService(activityRepo, zap.NewNop(), bc)

	activityRepo.On("Insert", mock.Anything, mock.Anything).
		Return(apperr.Store("insert", "activity_log", errors.New("timeout")))

	_, err := svc.Record(context.Background(), RecordInput{Action: model.ActionProjectCreated})
	var sErr *apperr.StoreError
	assert.ErrorAs(t, err, &sErr)
	bc.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestActivityService_Record_BroadcastFailureIgnored(t *testing.T) {
	activityRepo := new(MockActivityRepo)
	bc := new(MockBroadcaster)
	svc := NewActivityService(activityRepo, zap.NewNop(), bc)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	bc.On("Publish", mock.Anything, "activity.task_done", mock.Anything).
		Return(errors.New("channel closed"))

	_, err := svc.Record(context.Background(), RecordInput{Action: model.ActionTaskDone})
	assert.NoError(t, err)
	bc.AssertExpectations(t)
}

func TestActivityService_List_NormalizesFilter(t *testing.T) {
	activityRepo := new(MockActivityRepo)
	svc := NewActivityService(activityRepo, zap.NewNop(), nil)

	agent := "Ava"
	wantAgent := "ava"
	activityRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.ActivityFilter) bool {
		return f.Agent != nil && *f.Agent == wantAgent
	}), 0).Return([]model.ActivityLog{}, nil)

	_, err := svc.List(context.Background(), repo.ActivityFilter{Agent: &agent}, 0)
	assert.NoError(t, err)
	activityRepo.AssertExpectations(t)
}
