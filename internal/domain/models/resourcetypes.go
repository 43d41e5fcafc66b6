// internal/domain/models/resourcetypes.go
package models

import "strings"

// ResourceType identifies what kind of item a Resource is.
//
// Values are stored as-is in the resources collection and used as stable
// keys in forms and query strings.
type ResourceType string

const (
	ResourceTypeActivity ResourceType = "activity"
	ResourceTypeGame     ResourceType = "game"
	ResourceTypeDocument ResourceType = "document"
)

// ResourceTypes is the full, ordered set of allowed resource types.
var ResourceTypes = []ResourceType{
	ResourceTypeActivity,
	ResourceTypeGame,
	ResourceTypeDocument,
}

// DefaultResourceType is used when no type is provided on create.
const DefaultResourceType = ResourceTypeActivity

// IsValid reports whether t is one of ResourceTypes.
func (t ResourceType) IsValid() bool {
	for _, v := range ResourceTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns the human-facing name of the type.
func (t ResourceType) Label() string {
	switch t {
	case ResourceTypeActivity:
		return "Activity"
	case ResourceTypeGame:
		return "Game"
	case ResourceTypeDocument:
		return "Document"
	}
	return string(t)
}

// ParseResourceType folds s and returns the matching type.
// ok is false when s names no known type.
func ParseResourceType(s string) (ResourceType, bool) {
	t := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// ResourceStatus controls who can see a Resource.
type ResourceStatus string

const (
	ResourceStatusPrivate   ResourceStatus = "private"
	ResourceStatusPublic    ResourceStatus = "public"
	ResourceStatusDraft     ResourceStatus = "draft"
	ResourceStatusSuspended ResourceStatus = "suspended"
)

// ResourceStatuses is the full, ordered set of allowed resource statuses.
var ResourceStatuses = []ResourceStatus{
	ResourceStatusPrivate,
	ResourceStatusPublic,
	ResourceStatusDraft,
	ResourceStatusSuspended,
}

// DefaultResourceStatus is used when no status is provided on create.
const DefaultResourceStatus = ResourceStatusDraft

// IsValid reports whether s is one of ResourceStatuses.
func (s ResourceStatus) IsValid() bool {
	for _, v := range ResourceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the human-facing name of the status.
func (s ResourceStatus) Label() string {
	switch s {
	case ResourceStatusPrivate:
		return "Private"
	case ResourceStatusPublic:
		return "Public"
	case ResourceStatusDraft:
		return "Draft"
	case ResourceStatusSuspended:
		return "Suspended"
	}
	return string(s)
}

// ParseResourceStatus folds s and returns the matching status.
// ok is false when s names no known status.
func ParseResourceStatus(s string) (ResourceStatus, bool) {
	st := ResourceStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}
