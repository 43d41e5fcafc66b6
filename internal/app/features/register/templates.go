// internal/app/features/register/templates.go
package register

import (
	"embed"

	_ "github.com/dalemusser/resourcehub/internal/app/features/shared/views"
	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "register",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
