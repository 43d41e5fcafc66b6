// Package normalize trims and case-folds form and query input before it is
// validated or stored.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, collapsing inner runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query value, keeping its case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// FilterID trims an id-valued filter; "all" (any case) becomes "".
func FilterID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Key returns the folded form stored in *_ci fields for indexed lookups.
func Key(s string) string {
	return text.Fold(Name(s))
}
