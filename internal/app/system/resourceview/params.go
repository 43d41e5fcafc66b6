package resourceview

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// All disables a filter.
const All = "all"

// SortKey selects the list ordering.
type SortKey string

const (
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
	SortDateDesc SortKey = "date_desc"
	SortDateAsc  SortKey = "date_asc"
)

// DefaultSort is the ordering restored by Reset.
const DefaultSort = SortNameAsc

// SortKeys lists the supported orderings in menu order.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortDateDesc, SortDateAsc}

// IsValid reports whether k is a supported ordering.
func (k SortKey) IsValid() bool {
	for _, v := range SortKeys {
		if k == v {
			return true
		}
	}
	return false
}

// Label is the caption shown next to the list ("Sorted by: ...").
func (k SortKey) Label() string {
	switch k {
	case SortNameAsc:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	case SortDateDesc:
		return "Date (newest)"
	case SortDateAsc:
		return "Date (oldest)"
	}
	return DefaultSort.Label()
}

// Params are the four controls bound from the list page.
//
// Status and Type hold a models value or All; Category holds a category
// ObjectID hex or All.
type Params struct {
	Status   string
	Type     string
	Category string
	Sort     SortKey
}

// DefaultParams is what the Reset action restores.
func DefaultParams() Params {
	return Params{
		Status:   All,
		Type:     All,
		Category: All,
		Sort:     DefaultSort,
	}
}

// Normalize folds case and replaces anything unrecognized with All (filters)
// or DefaultSort (ordering).
func (p Params) Normalize() Params {
	out := DefaultParams()

	if st, ok := models.ParseResourceStatus(p.Status); ok {
		out.Status = string(st)
	}
	if t, ok := models.ParseResourceType(p.Type); ok {
		out.Type = string(t)
	}
	if c := strings.ToLower(strings.TrimSpace(p.Category)); c != "" && c != All {
		if _, err := primitive.ObjectIDFromHex(c); err == nil {
			out.Category = c
		}
	}
	if k := SortKey(strings.ToLower(strings.TrimSpace(string(p.Sort)))); k.IsValid() {
		out.Sort = k
	}
	return out
}

// IsDefault reports whether p (normalized) equals DefaultParams.
func (p Params) IsDefault() bool {
	return p.Normalize() == DefaultParams()
}

// ParseParams binds the list controls from the request query string.
// A non-empty "reset" value discards everything else.
func ParseParams(r *http.Request) Params {
	if query.Get(r, "reset") != "" {
		return DefaultParams()
	}
	return Params{
		Status:   query.Get(r, "status"),
		Type:     query.Get(r, "type"),
		Category: query.Get(r, "category"),
		Sort:     SortKey(query.Get(r, "sort")),
	}.Normalize()
}

// Values encodes p for links (pagination, back URLs). Defaults are omitted.
func (p Params) Values() url.Values {
	p = p.Normalize()
	v := url.Values{}
	if p.Status != All {
		v.Set("status", p.Status)
	}
	if p.Type != All {
		v.Set("type", p.Type)
	}
	if p.Category != All {
		v.Set("category", p.Category)
	}
	if p.Sort != DefaultSort {
		v.Set("sort", string(p.Sort))
	}
	return v
}

// Option is a value/label pair for a select menu.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// StatusOptions returns the status menu with "All" first.
func StatusOptions(selected string) []Option {
	opts := []Option{{Value: All, Label: "All", Selected: selected == All}}
	for _, s := range models.ResourceStatuses {
		opts = append(opts, Option{Value: string(s), Label: s.Label(), Selected: string(s) == selected})
	}
	return opts
}

// TypeOptions returns the type menu with "All" first.
func TypeOptions(selected string) []Option {
	opts := []Option{{Value: All, Label: "All", Selected: selected == All}}
	for _, t := range models.ResourceTypes {
		opts = append(opts, Option{Value: string(t), Label: t.Label(), Selected: string(t) == selected})
	}
	return opts
}

// CategoryOptions returns the category menu with "All" first.
func CategoryOptions(cats []models.Category, selected string) []Option {
	opts := make([]Option, 0, len(cats)+1)
	opts = append(opts, Option{Value: All, Label: "All", Selected: selected == All})
	for _, c := range cats {
		hex := c.ID.Hex()
		opts = append(opts, Option{Value: hex, Label: c.Name, Selected: hex == selected})
	}
	return opts
}

// SortOptions returns the ordering menu.
func SortOptions(selected SortKey) []Option {
	opts := make([]Option, 0, len(SortKeys))
	for _, k := range SortKeys {
		opts = append(opts, Option{Value: string(k), Label: k.Label(), Selected: k == selected})
	}
	return opts
}

// Query is Values encoded, without the leading "?". Empty for the defaults.
func (p Params) Query() string {
	return p.Values().Encode()
}
