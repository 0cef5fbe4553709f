package models

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	Base
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;index"`
	ActivityType string         `json:"activity_type"`
	Timestamp    time.Time      `json:"timestamp"`
	Details      map[string]any `json:"details,omitempty" gorm:"serializer:json;type:jsonb"`
}

type ActivityCreate struct {
	UserID       uuid.UUID      `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Timestamp    time.Time      `json:"timestamp"`
	Details      map[string]any `json:"details,omitempty"`
}

type ActivityUpdate struct {
	ActivityType *string         `json:"activity_type,omitempty"`
	Details      *map[string]any `json:"details,omitempty"`
}
