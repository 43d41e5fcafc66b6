// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
)

// listItem is one audit event row.
type listItem struct {
	ID        string
	Timestamp time.Time
	Category  string
	EventType string
	UserName  string // resolved from UserID, hex when the user is gone
	TargetID  string
	IP        string
	Success   bool
	Reason    string
	Details   map[string]string
}

type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	Categories []option
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

type option struct {
	Value string
	Label string
}

func allCategories() []option {
	return []option{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryContent, Label: "Content"},
		{Value: audit.CategoryAdmin, Label: "User administration"},
	}
}

// eventTypesForCategory lists the event types shown in the filter for
// category; an empty category lists all of them.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
		audit.EventUserRegistered,
	}
	contentEvents := []string{
		audit.EventResourceCreated,
		audit.EventResourceUpdated,
		audit.EventResourceDeleted,
		audit.EventCategoryCreated,
		audit.EventCommentDeleted,
	}
	adminEvents := []string{
		audit.EventUserRoleChanged,
		audit.EventUserDisabled,
		audit.EventUserEnabled,
		audit.EventUserDeleted,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryContent:
		return contentEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(contentEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, contentEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}
