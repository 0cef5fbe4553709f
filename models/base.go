package models

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the fields shared by every PromptLane entity. It is
// embedded by the concrete models so both gorm and the JSON codec see
// the columns directly on the entity.
type Base struct {
	ID        uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty" gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty" gorm:"type:uuid"`
}
