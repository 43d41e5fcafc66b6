package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a shareable catalog item (activity, game or document).
type Resource struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	Description string `bson:"description" json:"description"`

	Type   ResourceType   `bson:"type" json:"type"`
	Status ResourceStatus `bson:"status" json:"status"`

	// CategoryID is nil when the resource is uncategorized.
	CategoryID *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
}

// InCategory reports whether the resource references the given category.
func (r Resource) InCategory(id primitive.ObjectID) bool {
	return r.CategoryID != nil && *r.CategoryID == id
}

// OwnedBy reports whether the resource was created by the given user.
func (r Resource) OwnedBy(userID primitive.ObjectID) bool {
	return r.CreatedByID != nil && *r.CreatedByID == userID
}
