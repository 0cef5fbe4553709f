package models

import "github.com/google/uuid"

// Prompt is a single version in a prompt lineage. The root of a lineage
// has no parent; every later version points at the version it was
// created from via ParentID.
type Prompt struct {
	Base
	Name         string     `json:"name" gorm:"not null"`
	Key          string     `json:"key" gorm:"index;not null"`
	Description  string     `json:"description,omitempty"`
	SystemPrompt string     `json:"system_prompt"`
	UserPrompt   string     `json:"user_prompt"`
	IsActive     bool       `json:"is_active"`
	Version      int        `json:"version"`
	ProjectID    uuid.UUID  `json:"project_id" gorm:"type:uuid;index"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`
}

type PromptCreate struct {
	Name         string     `json:"name"`
	Key          string     `json:"key"`
	Description  string     `json:"description,omitempty"`
	SystemPrompt string     `json:"system_prompt"`
	UserPrompt   string     `json:"user_prompt"`
	IsActive     bool       `json:"is_active"`
	ProjectID    uuid.UUID  `json:"project_id"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
}

type PromptUpdate struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
	UserPrompt   *string `json:"user_prompt,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}
