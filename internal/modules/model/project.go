package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null" json:"name"`
	// Slug is a deterministic normalization of Name and unique among
	// projects; renaming a project regenerates it.
	Slug        string        `gorm:"type:text;uniqueIndex:uq_projects_slug;not null" json:"slug"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Status      ProjectStatus `gorm:"type:text;not null;default:'planning';check:status IN ('planning','active','paused','completed','archived');index:ix_projects_status" json:"status"`

	Settings  datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"settings"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"metadata"`
	TechStack datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"tech_stack"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:ix_projects_updated_at" json:"updated_at"`

	// Project <-> Task
	Tasks []Task `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
