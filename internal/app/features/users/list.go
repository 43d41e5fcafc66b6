// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/app/system/paging"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

const dateLayout = "2006-01-02"

// ServeList shows every account with search, role and status filters.
// GET /users
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

// renderList draws the list for the filters in the query string. Action
// handlers reuse it to show a refusal above the table.
func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	filter := parseFilter(r)
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Users.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A database error occurred.", "/")
		return
	}
	page := paging.Slice(all, start)

	_, _, self, _ := authz.UserCtx(r)
	rows := make([]userRow, 0, len(page.Rows))
	for _, u := range page.Rows {
		rows = append(rows, userRow{
			ID:        u.ID.Hex(),
			FullName:  u.FullName,
			Email:     u.Email,
			Role:      u.Role,
			Status:    u.Status,
			Joined:    u.CreatedAt.Format(dateLayout),
			IsSelf:    u.ID == self,
			IsAdmin:   u.Role == models.RoleAdmin,
			IsEnabled: u.Status != models.UserStatusDisabled,
		})
	}

	data := listData{
		Search:        filter.Search,
		Role:          filter.Role,
		Status:        filter.Status,
		RoleOptions:   options(filter.Role, "All roles", models.RoleUser, models.RoleAdmin),
		StatusOptions: options(filter.Status, "All statuses", models.UserStatusActive, models.UserStatusDisabled),
		Rows:          rows,
		Range:         page.Range,
		Total:         page.Total,
		HasPrev:       page.HasPrev,
		HasNext:       page.HasNext,
		PrevURL:       listURL(filter, page.PrevStart),
		NextURL:       listURL(filter, page.NextStart),
		SelfURL:       listURL(filter, page.Start),
	}
	formutil.SetBase(&data.Base, r, "Users", "/")
	if errMsg != "" {
		data.SetError(errMsg)
	}

	w.WriteHeader(status)
	templates.Render(w, r, "users_list", data)
}

// parseFilter reads search, role and status from the query string.
// Unknown roles and statuses are dropped.
func parseFilter(r *http.Request) userstore.ListFilter {
	f := userstore.ListFilter{
		Search: query.Get(r, "search"),
		Role:   normalize.Role(normalize.FilterID(query.Get(r, "role"))),
		Status: normalize.Status(normalize.FilterID(query.Get(r, "status"))),
	}
	if f.Role != models.RoleUser && f.Role != models.RoleAdmin {
		f.Role = ""
	}
	if f.Status != models.UserStatusActive && f.Status != models.UserStatusDisabled {
		f.Status = ""
	}
	return f
}

func options(selected, allLabel string, values ...string) []option {
	opts := []option{{Value: "", Label: allLabel, Selected: selected == ""}}
	for _, v := range values {
		opts = append(opts, option{Value: v, Label: v, Selected: v == selected})
	}
	return opts
}

// listURL builds a list link that keeps the filters. start <= 1 is omitted.
func listURL(f userstore.ListFilter, start int) string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Role != "" {
		v.Set("role", f.Role)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if start > 1 {
		v.Set("start", strconv.Itoa(start))
	}
	if len(v) == 0 {
		return "/users"
	}
	return "/users?" + v.Encode()
}
