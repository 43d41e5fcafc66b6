// internal/app/features/users/types.go
package users

import (
	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/paging"
)

// userRow is one line of the users table.
type userRow struct {
	ID        string
	FullName  string
	Email     string
	Role      string
	Status    string
	Joined    string
	IsSelf    bool
	IsAdmin   bool
	IsEnabled bool
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type listData struct {
	formutil.Base

	// Filters
	Search        string
	Role          string
	Status        string
	RoleOptions   []option
	StatusOptions []option

	Rows []userRow
	paging.Range
	Total   int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string

	// SelfURL is the current list (filters, page) for return links.
	SelfURL string
}
