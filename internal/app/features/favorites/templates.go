// internal/app/features/favorites/templates.go
package favorites

import (
	"embed"

	_ "github.com/dalemusser/resourcehub/internal/app/features/shared/views"
	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "favorites",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
