package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	Base
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description,omitempty"`
}

type TeamCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type TeamUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TeamMember is the membership join between teams and users. It is
// managed through the Teams resource, not dispatched as a resource of
// its own.
type TeamMember struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TeamID    uuid.UUID `json:"team_id" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
