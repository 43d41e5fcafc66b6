package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func withUser(role string, id primitive.ObjectID) *auth.SessionUser {
	return &auth.SessionUser{ID: id.Hex(), Name: "Test User", Role: role}
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	role, name, id, ok := authz.UserCtx(req)
	if ok || role != "visitor" || name != "" || !id.IsZero() {
		t.Errorf("expected visitor, got role=%q name=%q id=%s ok=%v", role, name, id.Hex(), ok)
	}
}

func TestUserCtx_MalformedIDFailsClosed(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "nope", Role: "admin"})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected ok=false for malformed user id")
	}
	if authz.IsAdmin(req) {
		t.Error("expected IsAdmin=false for malformed user id")
	}
}

func TestUserCtx_LowercasesRole(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, withUser("Admin", id))

	role, _, got, ok := authz.UserCtx(req)
	if !ok || role != "admin" || got != id {
		t.Errorf("got role=%q id=%s ok=%v", role, got.Hex(), ok)
	}
}

func TestViewer(t *testing.T) {
	anon := httptest.NewRequest("GET", "/resources", nil)
	if v := authz.Viewer(anon); v.Authenticated || len(v.Roles) != 0 {
		t.Errorf("expected anonymous viewer, got %+v", v)
	}

	req := auth.WithTestUser(httptest.NewRequest("GET", "/resources", nil), withUser("user", primitive.NewObjectID()))
	v := authz.Viewer(req)
	if !v.Authenticated || !v.HasRole("user") {
		t.Errorf("expected authenticated user viewer, got %+v", v)
	}
}

func TestCanSeeResource(t *testing.T) {
	draft := models.Resource{Status: models.ResourceStatusDraft}
	public := models.Resource{Status: models.ResourceStatusPublic}

	anon := httptest.NewRequest("GET", "/resources/x", nil)
	if authz.CanSeeResource(anon, draft) {
		t.Error("anonymous viewer must not see a draft")
	}
	if !authz.CanSeeResource(anon, public) {
		t.Error("anonymous viewer must see a public resource")
	}

	req := auth.WithTestUser(httptest.NewRequest("GET", "/resources/x", nil), withUser("user", primitive.NewObjectID()))
	if !authz.CanSeeResource(req, draft) {
		t.Error("signed-in viewer sees every status")
	}
}

func TestCanManageResource(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	res := models.Resource{CreatedByID: &owner}

	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"anonymous", nil, false},
		{"owner", withUser("user", owner), true},
		{"other user", withUser("user", other), false},
		{"admin", withUser("admin", other), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/resources/x/edit", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if got := authz.CanManageResource(req, res); got != tt.want {
				t.Errorf("CanManageResource = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageResource_NoCreator(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("POST", "/", nil), withUser("user", primitive.NewObjectID()))
	if authz.CanManageResource(req, models.Resource{}) {
		t.Error("a resource without a creator is admin-only")
	}
}

func TestCanDeleteComment(t *testing.T) {
	author := primitive.NewObjectID()
	c := models.Comment{AuthorID: author}

	own := auth.WithTestUser(httptest.NewRequest("POST", "/", nil), withUser("user", author))
	if !authz.CanDeleteComment(own, c) {
		t.Error("author may delete their comment")
	}

	other := auth.WithTestUser(httptest.NewRequest("POST", "/", nil), withUser("user", primitive.NewObjectID()))
	if authz.CanDeleteComment(other, c) {
		t.Error("other users may not delete the comment")
	}

	admin := auth.WithTestUser(httptest.NewRequest("POST", "/", nil), withUser("admin", primitive.NewObjectID()))
	if !authz.CanDeleteComment(admin, c) {
		t.Error("admin may delete any comment")
	}
}
