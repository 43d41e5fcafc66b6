package resourcestore_test

import (
	"testing"
	"time"

	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Resource{Name: "  Ressource   1 ", Description: " desc "})
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Ressource 1", created.Name)
	assert.Equal(t, "ressource 1", created.NameCI)
	assert.Equal(t, "desc", created.Description)
	assert.Equal(t, models.DefaultResourceType, created.Type)
	assert.Equal(t, models.DefaultResourceStatus, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	require.NotNil(t, created.UpdatedAt)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name string
		in   models.Resource
		want error
	}{
		{"blank name", models.Resource{Name: "   "}, resourcestore.ErrNameRequired},
		{"bad type", models.Resource{Name: "x", Type: "video"}, resourcestore.ErrInvalidType},
		{"bad status", models.Resource{Name: "x", Status: "archived"}, resourcestore.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cat := fx.CreateCategory(ctx, "Jeux")
	owner := fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	orig := fx.CreateResource(ctx, "Old name", testutil.ResourceOpts{CategoryID: &cat.ID, Creator: &owner})

	updated, err := store.Update(ctx, orig.ID, models.Resource{
		Name:   "New name",
		Type:   models.ResourceTypeGame,
		Status: models.ResourceStatusPrivate,
	})
	require.NoError(t, err)

	assert.Equal(t, "New name", updated.Name)
	assert.Equal(t, "new name", updated.NameCI)
	assert.Equal(t, models.ResourceTypeGame, updated.Type)
	assert.Equal(t, models.ResourceStatusPrivate, updated.Status)
	assert.Nil(t, updated.CategoryID, "nil category clears the reference")
	assert.True(t, updated.OwnedBy(owner.ID), "ownership is untouched")
	assert.True(t, orig.CreatedAt.Equal(updated.CreatedAt))
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Update(ctx, primitive.NewObjectID(), models.Resource{Name: "x"})
	assert.ErrorIs(t, err, resourcestore.ErrNotFound)

	_, err = store.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, resourcestore.ErrNotFound)
}

func TestStore_FetchAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	fx.CreateResource(ctx, "b", testutil.ResourceOpts{Status: models.ResourceStatusDraft})
	fx.CreateResource(ctx, "A", testutil.ResourceOpts{})

	all, err = store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, models.ResourceStatusDraft, all[1].Status, "every status is fetched")
}

func TestStore_FetchByIDsAndCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Creator", "c@example.com", models.RoleUser)
	old := fx.CreateResource(ctx, "old", testutil.ResourceOpts{Creator: &u, CreatedAt: time.Now().Add(-time.Hour)})
	recent := fx.CreateResource(ctx, "recent", testutil.ResourceOpts{Creator: &u})
	other := fx.CreateResource(ctx, "other", testutil.ResourceOpts{})

	got, err := store.FetchByIDs(ctx, []primitive.ObjectID{old.ID, other.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	empty, err := store.FetchByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	mine, err := store.FetchByCreator(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, recent.ID, mine[0].ID)
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := fx.CreateResource(ctx, "gone", testutil.ResourceOpts{})

	n, err := store.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.Delete(ctx, r.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
