package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLog is an immutable audit-trail entry describing one action by
// one actor. Rows are only ever inserted; no update or delete path exists
// for this entity. References to projects and tasks are weak: used for
// lookup and filtering, never lifecycle coupling.
type ActivityLog struct {
	ID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Agent  string         `gorm:"type:text;not null;index:ix_activity_agent" json:"agent"`
	Action ActivityAction `gorm:"type:text;not null;index:ix_activity_action" json:"action"`

	Details datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"details"`

	ProjectID   *uuid.UUID `gorm:"type:uuid;index:ix_activity_project_id" json:"project_id,omitempty"`
	Team        *string    `gorm:"type:text;index:ix_activity_team" json:"team,omitempty"`
	RelatedID   *uuid.UUID `gorm:"type:uuid" json:"related_id,omitempty"`
	RelatedType *string    `gorm:"type:text" json:"related_type,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:ix_activity_created_at" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
