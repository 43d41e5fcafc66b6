// internal/app/features/errors/logger.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorLogger logs handler failures and renders a user-facing response.
// Every logged error gets a short reference the user can quote.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func newRef() string {
	return uuid.NewString()[:8]
}

func (e *ErrorLogger) log(r *http.Request, lvl zapcore.Level, msg string, err error, ref string) {
	fields := []zap.Field{
		zap.String("ref", ref),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	e.Log.Log(lvl, msg, fields...)
}

// LogServerError logs err and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	ref := newRef()
	e.log(r, zap.ErrorLevel, msg, err, ref)
	e.page(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL, ref)
}

// LogBadRequest logs at warn and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	ref := newRef()
	e.log(r, zap.WarnLevel, msg, err, ref)
	e.page(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL, ref)
}

// LogNotFound renders a 404 page. Missing documents are routine, so they
// are only logged at debug.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	e.Log.Debug(msg, zap.String("path", r.URL.Path))
	RenderNotFound(w, r, "", backURL)
}

// LogForbidden logs at warn and renders the access denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg, userMsg, backURL string) {
	e.Log.Warn(msg, zap.String("method", r.Method), zap.String("path", r.URL.Path))
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for HTMX fragments: it renders an
// inline alert instead of a full page.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	ref := newRef()
	e.log(r, zap.ErrorLevel, msg, err, ref)
	w.WriteHeader(http.StatusInternalServerError)
	templates.RenderSnippet(w, "error_snippet", pageData{Message: userMsg, Reference: ref})
}

type jsonErrorBody struct {
	Error     string `json:"error"`
	Reference string `json:"reference,omitempty"`
}

// JSONError writes {"error": userMsg}. Server errors (5xx) are logged with a
// reference included in the body.
func (e *ErrorLogger) JSONError(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg string) {
	body := jsonErrorBody{Error: userMsg}
	if status >= http.StatusInternalServerError {
		body.Reference = newRef()
		e.log(r, zap.ErrorLevel, msg, err, body.Reference)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (e *ErrorLogger) page(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL, ref string) {
	vm := viewdata.NewBaseVM(r, title, "/")
	if backURL != "" {
		vm.BackURL = backURL
	}
	render(w, r, status, pageData{BaseVM: vm, Message: userMsg, Reference: ref})
}
