package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "correct horse battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly into a test database.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser inserts an active user whose password is TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()
	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "categories", c)
	return c
}

// ResourceOpts overrides fields of a fixture resource. Zero values keep
// the defaults (public activity, uncategorized, created now).
type ResourceOpts struct {
	Type       models.ResourceType
	Status     models.ResourceStatus
	CategoryID *primitive.ObjectID
	Creator    *models.User
	CreatedAt  time.Time
}

// CreateResource inserts a resource named name.
func (f *Fixtures) CreateResource(ctx context.Context, name string, opts ResourceOpts) models.Resource {
	f.t.Helper()

	r := models.Resource{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Description of " + name,
		Type:        models.ResourceTypeActivity,
		Status:      models.ResourceStatusPublic,
		CategoryID:  opts.CategoryID,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if opts.Type != "" {
		r.Type = opts.Type
	}
	if opts.Status != "" {
		r.Status = opts.Status
	}
	if !opts.CreatedAt.IsZero() {
		r.CreatedAt = opts.CreatedAt.UTC().Truncate(time.Millisecond)
	}
	if opts.Creator != nil {
		id := opts.Creator.ID
		r.CreatedByID = &id
		r.CreatedByName = opts.Creator.DisplayName()
	}
	f.insert(ctx, "resources", r)
	return r
}

func (f *Fixtures) CreateComment(ctx context.Context, res models.Resource, author models.User, body string) models.Comment {
	f.t.Helper()
	c := models.Comment{
		ID:         primitive.NewObjectID(),
		ResourceID: res.ID,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName(),
		Body:       body,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	f.insert(ctx, "comments", c)
	return c
}
