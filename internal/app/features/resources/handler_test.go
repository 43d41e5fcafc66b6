package resources_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	"github.com/dalemusser/resourcehub/internal/app/features/resources"
	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| List page with in-memory sources                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type fakeRepo struct {
	rs  []models.Resource
	err error
}

func (f fakeRepo) FetchAll(context.Context) ([]models.Resource, error) { return f.rs, f.err }

type fakeCats []models.Category

func (f fakeCats) List(context.Context) ([]models.Category, error) { return f, nil }

var (
	catMaths = models.Category{ID: primitive.NewObjectID(), Name: "Maths"}
	catArt   = models.Category{ID: primitive.NewObjectID(), Name: "Art"}
)

func catalog() []models.Resource {
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mk := func(name string, st models.ResourceStatus, ty models.ResourceType, cat *models.Category, age int) models.Resource {
		r := models.Resource{
			ID: primitive.NewObjectID(), Name: name, Status: st, Type: ty,
			CreatedAt: day.AddDate(0, 0, age),
		}
		if cat != nil {
			id := cat.ID
			r.CategoryID = &id
		}
		return r
	}
	return []models.Resource{
		mk("Ressource 1", models.ResourceStatusPublic, models.ResourceTypeActivity, &catMaths, 0),
		mk("Ressource 2", models.ResourceStatusPrivate, models.ResourceTypeGame, &catArt, 1),
		mk("Ressource 3", models.ResourceStatusDraft, models.ResourceTypeDocument, nil, 2),
	}
}

func listHandler(repo resources.ResourceRepository) *resources.Handler {
	logger := zap.NewNop()
	return &resources.Handler{
		Repo:       repo,
		Categories: fakeCats{catMaths, catArt},
		ErrLog:     uierrors.NewErrorLogger(logger),
		Metrics:    metrics.New(),
		Log:        logger,
	}
}

func rowOrder(body string, names ...string) []int {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = strings.Index(body, ">"+n+"<")
	}
	return idx
}

func TestServeList_AnonymousSeesOnlyPublic(t *testing.T) {
	testutil.BootTemplates(t)
	h := listHandler(fakeRepo{rs: catalog()})

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewRequest(http.MethodGet, "/resources?status=all"))

	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	assert.Contains(t, body, ">Ressource 1<")
	assert.NotContains(t, body, ">Ressource 2<")
	assert.NotContains(t, body, ">Ressource 3<")
}

func TestServeList_SignedInFiltersAndSorts(t *testing.T) {
	testutil.BootTemplates(t)
	h := listHandler(fakeRepo{rs: catalog()})

	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/resources?sort=date_desc", testutil.RegularUser())
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	idx := rowOrder(rec.Body.String(), "Ressource 3", "Ressource 2", "Ressource 1")
	for _, i := range idx {
		require.GreaterOrEqual(t, i, 0)
	}
	assert.Less(t, idx[0], idx[1])
	assert.Less(t, idx[1], idx[2])

	rec = testutil.NewRecorder()
	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/resources?category="+catArt.ID.Hex(), testutil.RegularUser())
	h.ServeList(rec, req)
	body := rec.Body.String()
	assert.Contains(t, body, ">Ressource 2<")
	assert.NotContains(t, body, ">Ressource 1<")
	assert.NotContains(t, body, ">Ressource 3<")
}

func TestServeList_HTMXRendersTableOnly(t *testing.T) {
	testutil.BootTemplates(t)
	h := listHandler(fakeRepo{rs: catalog()})

	req := testutil.NewRequest(http.MethodGet, "/resources")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "resources-table-wrap")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	body := rec.Body.String()
	assert.Contains(t, body, "resources-table")
	assert.NotContains(t, body, "<html")
}

func TestServeList_RepositoryError(t *testing.T) {
	testutil.BootTemplates(t)
	h := listHandler(fakeRepo{err: errors.New("boom")})

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewRequest(http.MethodGet, "/resources"))

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestServeList_EmptyCatalog(t *testing.T) {
	testutil.BootTemplates(t)
	h := listHandler(fakeRepo{})

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewRequest(http.MethodGet, "/resources"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "No resources match")
}

/*─────────────────────────────────────────────────────────────────────────────*
| CRUD against a test database                                                |
*─────────────────────────────────────────────────────────────────────────────*/

type env struct {
	h  *resources.Handler
	fx *testutil.Fixtures
}

func newEnv(t *testing.T) env {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	al := auditlog.New(audit.New(db), logger, auditlog.DefaultConfig())
	h := resources.NewHandler(db, uierrors.NewErrorLogger(logger), al, metrics.New(), logger)
	return env{h: h, fx: testutil.NewFixtures(t, db)}
}

func (e env) count(t *testing.T, coll string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := e.fx.DB().Collection(coll).CountDocuments(ctx, filter)
	require.NoError(t, err)
	return n
}

func withID(r *http.Request, id primitive.ObjectID) *http.Request {
	return testutil.WithChiURLParam(r, "id", id.Hex())
}

func TestHandleCreate(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	cat := e.fx.CreateCategory(ctx, "Maths")

	form := url.Values{
		"name":        {"  Fractions   workshop "},
		"description": {"Learn <b>fractions</b><script>alert(1)</script>"},
		"type":        {"game"},
		"status":      {"public"},
		"category":    {cat.ID.Hex()},
	}
	req := testutil.WithUser(testutil.NewFormRequest("/resources", form), testutil.FromModel(owner))
	rec := testutil.NewRecorder()
	e.h.HandleCreate(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/resources/"))

	var got models.Resource
	require.NoError(t, e.fx.DB().Collection("resources").FindOne(ctx, bson.M{}).Decode(&got))
	assert.Equal(t, "Fractions workshop", got.Name)
	assert.Equal(t, models.ResourceTypeGame, got.Type)
	assert.NotContains(t, got.Description, "<script>")
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)
	require.NotNil(t, got.CreatedByID)
	assert.Equal(t, owner.ID, *got.CreatedByID)
	assert.Equal(t, int64(1), e.count(t, "audit_events", bson.M{"event_type": audit.EventResourceCreated}))
}

func TestHandleCreate_Invalid(t *testing.T) {
	e := newEnv(t)

	cases := map[string]url.Values{
		"blank name":       {"name": {" "}, "type": {"game"}, "status": {"public"}},
		"bad type":         {"name": {"X"}, "type": {"video"}, "status": {"public"}},
		"bad status":       {"name": {"X"}, "type": {"game"}, "status": {"archived"}},
		"unknown category": {"name": {"X"}, "type": {"game"}, "status": {"public"}, "category": {primitive.NewObjectID().Hex()}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewFormRequest("/resources", form), testutil.RegularUser())
			rec := testutil.NewRecorder()
			e.h.HandleCreate(rec, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
	assert.Equal(t, int64(0), e.count(t, "resources", bson.M{}))
}

func TestHandleEdit_OwnerOnly(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	other := e.fx.CreateUser(ctx, "Other", "other@example.com", models.RoleUser)
	res := e.fx.CreateResource(ctx, "Original", testutil.ResourceOpts{Creator: &owner})

	form := url.Values{"name": {"Renamed"}, "type": {"document"}, "status": {"draft"}}

	rec := testutil.NewRecorder()
	req := withID(testutil.WithUser(testutil.NewFormRequest("/resources/x/edit", form), testutil.FromModel(other)), res.ID)
	e.h.HandleEdit(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	req = withID(testutil.WithUser(testutil.NewFormRequest("/resources/x/edit", form), testutil.FromModel(owner)), res.ID)
	e.h.HandleEdit(rec, req)
	rec.AssertRedirect(t, "/resources/"+res.ID.Hex())

	var got models.Resource
	require.NoError(t, e.fx.DB().Collection("resources").FindOne(ctx, bson.M{"_id": res.ID}).Decode(&got))
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, models.ResourceStatusDraft, got.Status)
	assert.Nil(t, got.CategoryID)
}

func TestServeEdit_AdminCanManageAnyResource(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	res := e.fx.CreateResource(ctx, "Owned", testutil.ResourceOpts{Creator: &owner})

	rec := testutil.NewRecorder()
	req := withID(testutil.NewAuthenticatedRequest(http.MethodGet, "/resources/x/edit", testutil.AdminUser()), res.ID)
	e.h.ServeEdit(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `value="Owned"`)
}

func TestServeEdit_Missing(t *testing.T) {
	e := newEnv(t)
	rec := testutil.NewRecorder()
	req := withID(testutil.NewAuthenticatedRequest(http.MethodGet, "/resources/x/edit", testutil.AdminUser()), primitive.NewObjectID())
	e.h.ServeEdit(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete_Cascades(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	res := e.fx.CreateResource(ctx, "Doomed", testutil.ResourceOpts{Creator: &owner})
	keep := e.fx.CreateResource(ctx, "Keeper", testutil.ResourceOpts{Creator: &owner})
	e.fx.CreateComment(ctx, res, owner, "bye")
	e.fx.CreateComment(ctx, keep, owner, "stay")
	_, err := e.h.Favorites.Toggle(ctx, owner.ID, res.ID)
	require.NoError(t, err)
	_, err = e.h.Progressions.Upsert(ctx, owner.ID, res.ID, 40)
	require.NoError(t, err)

	rec := testutil.NewRecorder()
	req := withID(testutil.WithUser(testutil.NewFormRequest("/resources/x/delete", url.Values{}), testutil.FromModel(owner)), res.ID)
	e.h.HandleDelete(rec, req)

	rec.AssertRedirect(t, "/resources")
	assert.Equal(t, int64(0), e.count(t, "resources", bson.M{"_id": res.ID}))
	assert.Equal(t, int64(0), e.count(t, "comments", bson.M{"resource_id": res.ID}))
	assert.Equal(t, int64(0), e.count(t, "favorites", bson.M{"resource_id": res.ID}))
	assert.Equal(t, int64(0), e.count(t, "progressions", bson.M{"resource_id": res.ID}))
	assert.Equal(t, int64(1), e.count(t, "comments", bson.M{"resource_id": keep.ID}))
}

func TestHandleDelete_Forbidden(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	res := e.fx.CreateResource(ctx, "Mine", testutil.ResourceOpts{Creator: &owner})

	rec := testutil.NewRecorder()
	req := withID(testutil.WithUser(testutil.NewFormRequest("/resources/x/delete", url.Values{}), testutil.RegularUser()), res.ID)
	e.h.HandleDelete(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	assert.Equal(t, int64(1), e.count(t, "resources", bson.M{"_id": res.ID}))
}

func TestServeView_Visibility(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	author := e.fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)
	pub := e.fx.CreateResource(ctx, "Open", testutil.ResourceOpts{})
	draft := e.fx.CreateResource(ctx, "Hidden", testutil.ResourceOpts{Status: models.ResourceStatusDraft})
	e.fx.CreateComment(ctx, pub, author, "Nice one")

	rec := testutil.NewRecorder()
	e.h.ServeView(rec, withID(testutil.NewRequest(http.MethodGet, "/resources/x"), pub.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Nice one")
	assert.NotContains(t, rec.Body.String(), "Add to favorites")

	rec = testutil.NewRecorder()
	e.h.ServeView(rec, withID(testutil.NewRequest(http.MethodGet, "/resources/x"), draft.ID))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	req := withID(testutil.WithUser(testutil.NewRequest(http.MethodGet, "/resources/x"), testutil.FromModel(author)), draft.ID)
	e.h.ServeView(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Add to favorites")
}

func TestServeView_BadID(t *testing.T) {
	e := newEnv(t)
	rec := testutil.NewRecorder()
	e.h.ServeView(rec, testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/resources/nope"), "id", "nope"))
	rec.AssertStatus(t, http.StatusNotFound)
}
