// Package formutil helps re-render a form after a validation error: the
// page keeps the user's input and shows the message above the form.
//
//	type resourceFormData struct {
//		formutil.Base
//		Name string
//	}
//
//	data := resourceFormData{Name: name}
//	formutil.SetBase(&data.Base, r, "New resource", "/resources")
//	data.SetError(res.First())
//	templates.Render(w, r, "resource_form", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
)

// Base is embedded in form view models.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase fills the page fields from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets an already-escaped message.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
