package categories_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/dalemusser/resourcehub/internal/app/features/categories"
	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/indexes"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*categories.Handler, *testutil.Fixtures) {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))

	logger := zap.NewNop()
	al := auditlog.New(audit.New(db), logger, auditlog.DefaultConfig())
	return categories.NewHandler(db, uierrors.NewErrorLogger(logger), al, logger), testutil.NewFixtures(t, db)
}

func TestServeList_CountsVisibleResources(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	maths := fx.CreateCategory(ctx, "Maths")
	id := maths.ID
	fx.CreateResource(ctx, "Open", testutil.ResourceOpts{CategoryID: &id})
	fx.CreateResource(ctx, "Closed", testutil.ResourceOpts{CategoryID: &id, Status: models.ResourceStatusPrivate})

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewRequest(http.MethodGet, "/categories"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, ">Maths<")
	rec.AssertContains(t, "<td>1</td>")
	assert.NotContains(t, rec.Body.String(), `action="/categories"`)

	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/categories", testutil.AdminUser()))
	rec.AssertContains(t, "<td>2</td>")
	rec.AssertContains(t, `action="/categories"`)
}

func TestHandleCreate(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	post := func(name string) *testutil.ResponseRecorder {
		req := testutil.WithUser(testutil.NewFormRequest("/categories", url.Values{"name": {name}}), testutil.AdminUser())
		rec := testutil.NewRecorder()
		h.HandleCreate(rec, req)
		return rec
	}

	post("  Science  ").AssertRedirect(t, "/categories")
	post("science").AssertStatus(t, http.StatusConflict)
	post("   ").AssertStatus(t, http.StatusBadRequest)

	n, err := fx.DB().Collection("categories").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = fx.DB().Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": audit.EventCategoryCreated})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
