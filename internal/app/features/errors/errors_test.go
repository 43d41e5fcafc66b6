package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*uierrors.ErrorLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return uierrors.NewErrorLogger(zap.New(core)), logs
}

func TestLogServerError_RendersReference(t *testing.T) {
	testutil.BootTemplates(t)
	errLog, logs := newObserved()

	rec := testutil.NewRecorder()
	errLog.LogServerError(rec, testutil.NewRequest(http.MethodGet, "/resources"), "find failed", errors.New("boom"), "A database error occurred.", "/resources")

	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertContains(t, "A database error occurred.")

	entries := logs.FilterMessage("find failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	ref := entries[0].ContextMap()["ref"].(string)
	assert.Len(t, ref, 8)
	rec.AssertContains(t, ref)
}

func TestLogBadRequest(t *testing.T) {
	testutil.BootTemplates(t)
	errLog, logs := newObserved()

	rec := testutil.NewRecorder()
	errLog.LogBadRequest(rec, testutil.NewRequest(http.MethodPost, "/login"), "parse form failed", errors.New("bad"), "Invalid form data.", "/login")

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `href="/login"`)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestRenderPages(t *testing.T) {
	testutil.BootTemplates(t)

	rec := testutil.NewRecorder()
	uierrors.RenderNotFound(rec, testutil.NewRequest(http.MethodGet, "/resources/x"), "", "")
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	uierrors.RenderForbidden(rec, testutil.NewRequest(http.MethodGet, "/x"), "Only the owner can edit this resource.", "")
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "Only the owner can edit this resource.")

	rec = testutil.NewRecorder()
	uierrors.RenderUnauthorized(rec, testutil.NewRequest(http.MethodGet, "/x"), "")
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, `href="/login"`)
}

func TestJSONError(t *testing.T) {
	errLog, logs := newObserved()

	rec := testutil.NewRecorder()
	errLog.JSONError(rec, testutil.NewRequest(http.MethodGet, "/api/resources/x"), http.StatusNotFound, "not found", nil, "resource not found")
	rec.AssertStatus(t, http.StatusNotFound)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "resource not found"}, body)
	assert.Zero(t, logs.Len(), "client errors are not logged")

	rec = testutil.NewRecorder()
	errLog.JSONError(rec, testutil.NewRequest(http.MethodGet, "/api/resources"), http.StatusInternalServerError, "fetch failed", errors.New("down"), "internal error")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["reference"])
	assert.Equal(t, 1, logs.Len())
}
