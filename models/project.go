package models

import "github.com/google/uuid"

type Project struct {
	Base
	Name        string    `json:"name" gorm:"not null"`
	Key         string    `json:"key" gorm:"uniqueIndex;not null"`
	Description string    `json:"description,omitempty"`
	TeamID      uuid.UUID `json:"team_id" gorm:"type:uuid;index"`
}

// ProjectCreate holds the fields accepted when creating a project.
type ProjectCreate struct {
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	TeamID      uuid.UUID `json:"team_id"`
}

// ProjectUpdate holds the fields accepted when updating a project.
// Nil fields are left untouched.
type ProjectUpdate struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	TeamID      *uuid.UUID `json:"team_id,omitempty"`
}
