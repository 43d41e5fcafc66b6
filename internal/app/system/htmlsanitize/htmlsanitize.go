// Package htmlsanitize cleans user-authored HTML (resource descriptions and
// comments) with bluemonday before it is stored or rendered.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("table", "code", "pre")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize removes scripts, event handlers, unsafe URLs and any element
// outside the user-content allowlist.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// Strip removes every tag, leaving text only.
func Strip(s string) string {
	return html.UnescapeString(bluemonday.StrictPolicy().Sanitize(s))
}

// Clean prepares input for storage. Plain text is kept as typed (trimmed);
// anything that looks like markup goes through Sanitize.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if IsPlainText(s) {
		return s
	}
	return Sanitize(s)
}

// IsPlainText reports whether s contains no tag-like sequence. A '<' only
// starts a tag when followed by a letter, '/' or '!'.
func IsPlainText(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '<' {
			continue
		}
		c := s[i+1]
		if c == '/' || c == '!' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// PlainTextToHTML escapes s and turns newlines into <br>.
func PlainTextToHTML(s string) template.HTML {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(html.EscapeString(s), "\n", "<br>"))
}

// PrepareForDisplay renders stored text for templates.
func PrepareForDisplay(s string) template.HTML {
	if IsPlainText(s) {
		return PlainTextToHTML(s)
	}
	return template.HTML(Sanitize(s))
}
