// internal/app/system/limits/limits.go
package limits

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Request body size limits for form posts. Middleware enforces them ahead
// of CSRF checking, which parses the form to find its token; handlers also
// wrap r.Body with http.MaxBytesReader before ParseForm.
const (
	// MaxResourceFormSize covers the resource create and edit forms and
	// is the cap for every other request body.
	// The description alone may be 10,000 characters.
	MaxResourceFormSize = 128 << 10 // 128 KB

	// MaxCommentFormSize covers a comment post.
	MaxCommentFormSize = 32 << 10 // 32 KB
)

// ForRequest returns the body cap for r.
// Comment posts go to /resources/{id}/comments.
func ForRequest(r *http.Request) int64 {
	p := strings.TrimSuffix(r.URL.Path, "/")
	if strings.HasPrefix(p, "/resources/") && strings.HasSuffix(p, "/comments") {
		return MaxCommentFormSize
	}
	return MaxResourceFormSize
}

// Middleware caps request bodies before anything downstream reads them.
// A declared Content-Length over the cap is answered by tooLarge without
// touching the body; otherwise reads past the cap fail.
func Middleware(tooLarge http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := ForRequest(r)
			if r.ContentLength > n {
				tooLarge(w, r)
				return
			}
			middleware.RequestSize(n)(next).ServeHTTP(w, r)
		})
	}
}
