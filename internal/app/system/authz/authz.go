// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. ok=true therefore means a valid,
// authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// Viewer derives the resource-list viewer from the request's session user.
func Viewer(r *http.Request) resourceview.Viewer {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return resourceview.Viewer{}
	}
	return resourceview.Viewer{Authenticated: true, Roles: []string{role}}
}

// CanSeeResource applies the list visibility gate to a single resource.
func CanSeeResource(r *http.Request, res models.Resource) bool {
	return Viewer(r).CanSee(res)
}

// CanManageResource reports whether the current user may edit or delete res.
// Admins can manage every resource; other users only the ones they created.
func CanManageResource(r *http.Request, res models.Resource) bool {
	role, _, userID, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleAdmin || res.OwnedBy(userID)
}

// CanDeleteComment reports whether the current user may delete c.
// Admins can delete any comment; authors their own.
func CanDeleteComment(r *http.Request, c models.Comment) bool {
	role, _, userID, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleAdmin || c.AuthorID == userID
}
