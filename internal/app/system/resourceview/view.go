// Package resourceview computes the list of resources a viewer sees.
//
// Compute is the single entry point: given every resource, the viewer and
// the bound filter/sort parameters it returns a new, ordered slice. It never
// mutates its inputs, never fails, and holds no state between calls, so
// handlers may call it concurrently with their own slices.
package resourceview

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Viewer is the requester as seen by Compute.
type Viewer struct {
	Authenticated bool
	Roles         []string
}

// HasRole reports whether the viewer holds role (case-insensitive).
func (v Viewer) HasRole(role string) bool {
	for _, r := range v.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// CanSee applies the visibility gate to a single resource.
//
// Signed-in viewers see every status, including other users' drafts and
// private resources. Anonymous viewers see Public only.
func (v Viewer) CanSee(r models.Resource) bool {
	return v.Authenticated || r.Status == models.ResourceStatusPublic
}

// Compute returns the visible, filtered and sorted projection of resources.
func Compute(resources []models.Resource, viewer Viewer, p Params) []models.Resource {
	p = p.Normalize()

	out := make([]models.Resource, 0, len(resources))
	for _, r := range resources {
		if !viewer.CanSee(r) {
			continue
		}
		if !p.matches(r) {
			continue
		}
		out = append(out, r)
	}

	slices.SortFunc(out, comparator(p.Sort))
	return out
}

// matches applies the status, type and category filters. p must be normalized.
func (p Params) matches(r models.Resource) bool {
	if p.Status != All && string(r.Status) != p.Status {
		return false
	}
	if p.Type != All && string(r.Type) != p.Type {
		return false
	}
	if p.Category != All {
		// Normalize guarantees a valid hex here.
		oid, _ := primitive.ObjectIDFromHex(p.Category)
		if !r.InCategory(oid) {
			return false
		}
	}
	return true
}

// comparator returns the ordering for key. Every ordering is total: ties
// fall back to identifier ascending.
func comparator(key SortKey) func(a, b models.Resource) int {
	byID := func(a, b models.Resource) int {
		return compareIDs(a.ID, b.ID)
	}

	switch key {
	case SortNameDesc:
		return func(a, b models.Resource) int {
			if c := strings.Compare(b.Name, a.Name); c != 0 {
				return c
			}
			return byID(a, b)
		}
	case SortDateDesc:
		return func(a, b models.Resource) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return byID(a, b)
		}
	case SortDateAsc:
		return func(a, b models.Resource) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return byID(a, b)
		}
	default:
		return func(a, b models.Resource) int {
			if c := strings.Compare(a.Name, b.Name); c != 0 {
				return c
			}
			return byID(a, b)
		}
	}
}

// compareIDs orders ObjectIDs by their raw bytes, which matches hex order.
func compareIDs(a, b primitive.ObjectID) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}
