package userstore_test

import (
	"context"
	"testing"

	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/indexes"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	userstore.PasswordCost = bcrypt.MinCost
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "  Ada   Lovelace ",
		Pseudo:   "ada",
		Email:    " Ada@Example.COM ",
	}, "analytical-engine")
	require.NoError(t, err)

	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Ada Lovelace", created.FullName)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, models.UserStatusActive, created.Status)
	assert.NotEqual(t, "analytical-engine", created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, "ada", created.DisplayName())
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{FullName: "A", Email: "a@example.com"}, "short")
	assert.ErrorIs(t, err, userstore.ErrWeakPassword)

	_, err = store.Create(ctx, models.User{FullName: "A", Email: "a@example.com", Role: "owner"}, "long enough")
	assert.Error(t, err)

	_, err = store.Create(ctx, models.User{FullName: " ", Email: "a@example.com"}, "long enough")
	assert.Error(t, err)
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))
	store := userstore.New(db)

	_, err := store.Create(ctx, models.User{FullName: "One", Email: "same@example.com"}, "password1")
	require.NoError(t, err)

	_, err = store.Create(ctx, models.User{FullName: "Two", Email: "SAME@example.com"}, "password2")
	assert.ErrorIs(t, err, userstore.ErrDuplicateEmail)
}

func TestStore_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Grace", "grace@example.com", models.RoleUser)

	got, err := store.Authenticate(ctx, "GRACE@example.com", testutil.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = store.Authenticate(ctx, "grace@example.com", "wrong")
	assert.ErrorIs(t, err, userstore.ErrInvalidCredentials)
	require.NotNil(t, got, "the matched user is returned for auditing")

	got, err = store.Authenticate(ctx, "nobody@example.com", testutil.TestPassword)
	assert.ErrorIs(t, err, userstore.ErrInvalidCredentials)
	assert.Nil(t, got)
}

func TestStore_Authenticate_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Off", "off@example.com", models.RoleUser)
	disable(ctx, t, db, u.ID)

	_, err := store.Authenticate(ctx, "off@example.com", testutil.TestPassword)
	assert.ErrorIs(t, err, userstore.ErrUserDisabled)
}

func TestStore_UpdateProfileAndRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Before", "p@example.com", models.RoleUser)

	require.NoError(t, store.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{
		FullName: "After", Pseudo: "aft", City: "Lyon", Address: "1 rue X",
	}))
	require.NoError(t, store.SetRole(ctx, u.ID, "ADMIN"))

	got, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.FullName)
	assert.Equal(t, "Lyon", got.City)
	assert.Equal(t, models.RoleAdmin, got.Role)

	n, err := store.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.Error(t, store.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{}))
}

func TestStore_ChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Pat", "pat@example.com", models.RoleUser)

	assert.ErrorIs(t, store.ChangePassword(ctx, u.ID, "nope", "brand new secret"), userstore.ErrInvalidCredentials)
	assert.ErrorIs(t, store.ChangePassword(ctx, u.ID, testutil.TestPassword, "short"), userstore.ErrWeakPassword)
	require.NoError(t, store.ChangePassword(ctx, u.ID, testutil.TestPassword, "brand new secret"))

	_, err := store.Authenticate(ctx, "pat@example.com", "brand new secret")
	assert.NoError(t, err)
	_, err = store.Authenticate(ctx, "pat@example.com", testutil.TestPassword)
	assert.ErrorIs(t, err, userstore.ErrInvalidCredentials)
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateUser(ctx, "Ann", "ann@example.com", models.RoleUser)
	b := fx.CreateUser(ctx, "Bob", "bob@example.com", models.RoleUser)
	fx.CreateUser(ctx, "Cy", "cy@example.com", models.RoleUser)

	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	names := []string{}
	for _, u := range got {
		names = append(names, u.FullName)
	}
	assert.ElementsMatch(t, []string{"Ann", "Bob"}, names)

	none, err := store.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateAdmin(ctx, "Root", "root@example.com")

	su := fetcher.FetchUser(ctx, u.ID.Hex())
	require.NotNil(t, su)
	assert.Equal(t, "Root", su.Name)
	assert.Equal(t, models.RoleAdmin, su.Role)

	assert.Nil(t, fetcher.FetchUser(ctx, "garbage"))
	assert.Nil(t, fetcher.FetchUser(ctx, primitive.NewObjectID().Hex()))

	disable(ctx, t, db, u.ID)
	assert.Nil(t, fetcher.FetchUser(ctx, u.ID.Hex()), "disabled users are signed out")
}

func disable(ctx context.Context, t *testing.T, db *mongo.Database, id primitive.ObjectID) {
	t.Helper()
	require.NoError(t, userstore.New(db).SetStatus(ctx, id, models.UserStatusDisabled))
}

func TestStore_SetStatusAndActiveAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateAdmin(ctx, "Ada", "ada@example.com")
	fx.CreateAdmin(ctx, "Bea", "bea@example.com")
	fx.CreateUser(ctx, "Cy", "cy@example.com", models.RoleUser)

	n, err := store.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, store.SetStatus(ctx, a.ID, " Disabled "))
	got, err := store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusDisabled, got.Status)

	n, err = store.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "disabled admins do not count")

	_, err = store.Authenticate(ctx, a.Email, testutil.TestPassword)
	assert.ErrorIs(t, err, userstore.ErrUserDisabled)

	assert.Error(t, store.SetStatus(ctx, a.ID, "suspended"))
	assert.ErrorIs(t, store.SetStatus(ctx, primitive.NewObjectID(), models.UserStatusActive), mongo.ErrNoDocuments)
	assert.ErrorIs(t, store.SetRole(ctx, primitive.NewObjectID(), models.RoleUser), mongo.ErrNoDocuments)
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateAdmin(ctx, "Zoé Root", "root@example.com")
	bob := fx.CreateUser(ctx, "Bob Stone", "bob@example.com", models.RoleUser)
	fx.CreateUser(ctx, "Ann Lee", "zed@example.com", models.RoleUser)
	require.NoError(t, store.SetStatus(ctx, bob.ID, models.UserStatusDisabled))

	names := func(f userstore.ListFilter) []string {
		t.Helper()
		users, err := store.List(ctx, f)
		require.NoError(t, err)
		out := []string{}
		for _, u := range users {
			assert.Empty(t, u.PasswordHash, "hashes are not loaded")
			out = append(out, u.FullName)
		}
		return out
	}

	assert.Equal(t, []string{"Ann Lee", "Bob Stone", "Zoé Root"}, names(userstore.ListFilter{}))
	assert.Equal(t, []string{"Zoé Root"}, names(userstore.ListFilter{Role: models.RoleAdmin}))
	assert.Equal(t, []string{"Bob Stone"}, names(userstore.ListFilter{Status: models.UserStatusDisabled}))
	assert.Equal(t, []string{"Zoé Root"}, names(userstore.ListFilter{Search: "zoe"}), "search folds accents")
	assert.Equal(t, []string{"Ann Lee"}, names(userstore.ListFilter{Search: " ZED@"}), "search matches email prefix")
	assert.Empty(t, names(userstore.ListFilter{Search: "nobody"}))
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Gone", "gone@example.com", models.RoleUser)

	n, err := store.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	n, err = store.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
