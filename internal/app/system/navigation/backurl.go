// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g. "/resources").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths reject return URLs that point back at action pages.
	ExcludedSubpaths []string

	// Fallback is used when no valid return URL is found.
	Fallback string

	// PreserveParams are copied from the request into the fallback URL when
	// present and not "all", so a list keeps its filters.
	PreserveParams []string
}

// SafeBackURL extracts and validates a return URL from the "return" query or
// form value. Open redirects are rejected by urlutil.SafeReturn.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret != "" && allowed(ret, opts) {
		return ret
	}
	return fallback(r, opts)
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return false
		}
	}
	return true
}

func fallback(r *http.Request, opts BackURLOptions) string {
	vals := url.Values{}
	for _, p := range opts.PreserveParams {
		v := query.Get(r, p)
		if v == "" {
			v = strings.TrimSpace(r.FormValue(p))
		}
		if v != "" && v != "all" {
			vals.Set(p, v)
		}
	}
	if len(vals) == 0 {
		return opts.Fallback
	}
	sep := "?"
	if strings.Contains(opts.Fallback, "?") {
		sep = "&"
	}
	return opts.Fallback + sep + vals.Encode()
}

// Back URL configurations shared by the feature packages.
var (
	ResourcesBackURL = BackURLOptions{
		AllowedPrefix:    "/resources",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new", "/comments", "/favorite", "/progress"},
		Fallback:         "/resources",
		PreserveParams:   []string{"status", "type", "category", "sort"},
	}

	FavoritesBackURL = BackURLOptions{
		AllowedPrefix: "/favorites",
		Fallback:      "/favorites",
	}

	CategoriesBackURL = BackURLOptions{
		AllowedPrefix: "/categories",
		Fallback:      "/categories",
	}

	UsersBackURL = BackURLOptions{
		AllowedPrefix:    "/users",
		ExcludedSubpaths: []string{"/role", "/status", "/delete"},
		Fallback:         "/users",
	}
)
