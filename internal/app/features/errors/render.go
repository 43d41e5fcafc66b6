// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
)

// RenderUnauthorized shows a "sign in required" page. An empty backURL
// points at /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	vm := viewdata.NewBaseVM(r, "Sign in required", backURL)
	vm.BackURL = backURL
	render(w, r, http.StatusUnauthorized, pageData{
		BaseVM:  vm,
		Message: "Please sign in to continue.",
	})
}

// RenderForbidden shows an access error page. An empty msg uses a generic
// message; an empty backURL resolves a safe back URL defaulting to /.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "You don't have permission to view this page."
	}
	render(w, r, http.StatusForbidden, pageData{
		BaseVM:  withBack(viewdata.NewBaseVM(r, "Access denied", "/"), backURL),
		Message: msg,
	})
}

// RenderNotFound shows a 404 page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "The page you were looking for does not exist."
	}
	render(w, r, http.StatusNotFound, pageData{
		BaseVM:  withBack(viewdata.NewBaseVM(r, "Not found", "/resources"), backURL),
		Message: msg,
	})
}

// RenderTooLarge shows a 413 page for request bodies over the size cap.
func RenderTooLarge(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusRequestEntityTooLarge, pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Request too large", "/"),
		Message: "That submission is too large. Shorten it and try again.",
	})
}

func withBack(vm viewdata.BaseVM, backURL string) viewdata.BaseVM {
	if backURL != "" {
		vm.BackURL = backURL
	}
	return vm
}
