package testutil

import (
	"sync"
	"testing"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var bootOnce sync.Once

// BootTemplates compiles every template set registered by the packages
// linked into the test binary. Render panics without a booted engine.
func BootTemplates(t testing.TB) {
	t.Helper()
	var err error
	bootOnce.Do(func() {
		eng := templates.New(false)
		if err = eng.Boot(zap.NewNop()); err != nil {
			return
		}
		templates.UseEngine(eng, zap.NewNop())
	})
	if err != nil {
		t.Fatalf("boot templates: %v", err)
	}
}
