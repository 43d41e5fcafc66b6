// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by the application.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is a registered account. Favorites, comments and progressions live in
// their own collections keyed by user_id.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Pseudo     string             `bson:"pseudo,omitempty" json:"pseudo,omitempty"`
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`

	PasswordHash string `bson:"password_hash" json:"-"`

	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`

	Role   string `bson:"role" json:"role"`     // user | admin
	Status string `bson:"status" json:"status"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName prefers the pseudo over the full name.
func (u User) DisplayName() string {
	if u.Pseudo != "" {
		return u.Pseudo
	}
	return u.FullName
}
