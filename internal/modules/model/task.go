package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:ix_tasks_project_id" json:"project_id"`
	// ParentID enables subtask trees. Acyclicity is assumed, not enforced.
	ParentID *uuid.UUID `gorm:"type:uuid" json:"parent_id,omitempty"`

	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus   `gorm:"type:text;not null;default:'backlog';check:status IN ('backlog','todo','in_progress','review','blocked','done');index:ix_tasks_status" json:"status"`
	Priority    TaskPriority `gorm:"type:text;not null;default:'medium';check:priority IN ('critical','high','medium','low');index:ix_tasks_priority" json:"priority"`

	// Team and agent are stored lowercase on every write path.
	AssignedTeam  *string `gorm:"type:text;index:ix_tasks_assigned_team" json:"assigned_team,omitempty"`
	AssignedAgent *string `gorm:"type:text;index:ix_tasks_assigned_agent" json:"assigned_agent,omitempty"`

	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`

	Tags         datatypes.JSONSlice[string] `gorm:"type:jsonb" swaggertype:"array,string" json:"tags"`
	Deliverables datatypes.JSONSlice[string] `gorm:"type:jsonb" swaggertype:"array,string" json:"deliverables"`
	Metadata     datatypes.JSONMap           `gorm:"type:jsonb" swaggertype:"object" json:"metadata"`

	// BlockerReason is non-null only while Status is blocked; any
	// transition away from blocked clears it.
	BlockerReason *string `gorm:"type:text" json:"blocker_reason,omitempty"`

	// StartedAt is stamped once, on the first transition into
	// in_progress; CompletedAt once, on the first transition into done.
	// Re-entering a status neither clears nor re-stamps them.
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	CreatedBy string `gorm:"type:text" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:text" json:"updated_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:ix_tasks_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Task <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
