package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progression statuses, derived from Percentage.
const (
	ProgressionNotStarted = "not_started"
	ProgressionInProgress = "in_progress"
	ProgressionCompleted  = "completed"
)

// Progression tracks how far a user has gone through a resource.
// (user_id, resource_id) is unique.
type Progression struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"user_id"`
	ResourceID        primitive.ObjectID `bson:"resource_id" json:"resource_id"`
	Percentage        float64            `bson:"percentage" json:"percentage"`
	Status            string             `bson:"status" json:"status"`
	LastInteractionAt time.Time          `bson:"last_interaction_at" json:"last_interaction_at"`
}

// ProgressionStatusFor maps a percentage (0-100) to a progression status.
func ProgressionStatusFor(pct float64) string {
	switch {
	case pct <= 0:
		return ProgressionNotStarted
	case pct >= 100:
		return ProgressionCompleted
	default:
		return ProgressionInProgress
	}
}
