package models

import (
	"time"

	"gorm.io/datatypes"
)

// CandidateActivityLog captures auditable candidate events ("accept",
// "complete") with optional structured metadata. Append-only.
type CandidateActivityLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       string            `gorm:"type:uuid;not null;index" json:"user_id"`
	UserActionID uint              `gorm:"not null" json:"user_action_id"`
	Metadata     datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
	UserAction   UserAction        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user_action"`
}
