package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks a resource as favorited by a user. (user_id, resource_id) is unique.
type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id"`
	ResourceID primitive.ObjectID `bson:"resource_id"`
	CreatedAt  time.Time          `bson:"created_at"`
}
