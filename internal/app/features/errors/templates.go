// internal/app/features/errors/templates.go
package errors

import (
	"embed"

	_ "github.com/dalemusser/resourcehub/internal/app/features/shared/views"
	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "errors",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
