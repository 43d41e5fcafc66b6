// internal/app/features/progression/templates.go
package progression

import (
	"embed"

	_ "github.com/dalemusser/resourcehub/internal/app/features/shared/views"
	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "progression",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
