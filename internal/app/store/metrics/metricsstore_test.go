package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/resourcehub/internal/app/store/metrics"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetchSiteCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchSiteCounts(ctx, db)
	if counts != (metricsstore.SiteCounts{}) {
		t.Errorf("got %+v, want all zero", counts)
	}
}

func TestFetchSiteCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "User One", "one@example.com", models.RoleUser)
	fixtures.CreateAdmin(ctx, "Admin", "admin@example.com")
	cat := fixtures.CreateCategory(ctx, "Science")

	r := fixtures.CreateResource(ctx, "Ressource 1", testutil.ResourceOpts{CategoryID: &cat.ID})
	fixtures.CreateResource(ctx, "Ressource 2", testutil.ResourceOpts{Status: models.ResourceStatusPrivate})
	fixtures.CreateResource(ctx, "Ressource 3", testutil.ResourceOpts{Status: models.ResourceStatusDraft})
	fixtures.CreateComment(ctx, r, u, "nice")

	counts := metricsstore.FetchSiteCounts(ctx, db)
	want := metricsstore.SiteCounts{Users: 2, Categories: 1, Resources: 3, Public: 1, Comments: 1}
	if counts != want {
		t.Errorf("got %+v, want %+v", counts, want)
	}
}

func TestFetchUserStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "User One", "one@example.com", models.RoleUser)
	other := fixtures.CreateUser(ctx, "User Two", "two@example.com", models.RoleUser)

	r1 := fixtures.CreateResource(ctx, "Mine", testutil.ResourceOpts{Creator: &u})
	r2 := fixtures.CreateResource(ctx, "Theirs", testutil.ResourceOpts{Creator: &other})

	favs := db.Collection("favorites")
	progs := db.Collection("progressions")
	mustInsert := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	_, err := favs.InsertOne(ctx, models.Favorite{ID: primitive.NewObjectID(), UserID: u.ID, ResourceID: r2.ID})
	mustInsert(err)
	_, err = progs.InsertOne(ctx, models.Progression{ID: primitive.NewObjectID(), UserID: u.ID, ResourceID: r1.ID, Percentage: 100, Status: models.ProgressionCompleted})
	mustInsert(err)
	_, err = progs.InsertOne(ctx, models.Progression{ID: primitive.NewObjectID(), UserID: u.ID, ResourceID: r2.ID, Percentage: 10, Status: models.ProgressionInProgress})
	mustInsert(err)
	_, err = progs.InsertOne(ctx, models.Progression{ID: primitive.NewObjectID(), UserID: other.ID, ResourceID: r2.ID, Percentage: 0, Status: models.ProgressionNotStarted})
	mustInsert(err)

	stats, err := metricsstore.FetchUserStats(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("FetchUserStats: %v", err)
	}
	want := metricsstore.UserStats{ResourcesCreated: 1, Favorites: 1, ProgressionsStarted: 2, ProgressionsCompleted: 1}
	if stats != want {
		t.Errorf("got %+v, want %+v", stats, want)
	}

	stats, _ = metricsstore.FetchUserStats(ctx, db, other.ID)
	if stats.ProgressionsStarted != 0 || stats.ResourcesCreated != 1 {
		t.Errorf("other user: got %+v", stats)
	}
}
