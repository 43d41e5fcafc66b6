// internal/app/features/resources/list.go
package resources

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/paging"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

const dateLayout = "2006-01-02"

// resourceRow is one line of the list table.
type resourceRow struct {
	ID           string
	Name         string
	Type         string
	TypeLabel    string
	Status       string
	StatusLabel  string
	CategoryName string
	CreatedBy    string
	CreatedAt    string
	CanManage    bool
}

type listData struct {
	viewdata.BaseVM

	Params          resourceview.Params
	StatusOptions   []resourceview.Option
	TypeOptions     []resourceview.Option
	CategoryOptions []resourceview.Option
	SortOptions     []resourceview.Option
	SortLabel       string
	IsFiltered      bool

	Rows []resourceRow
	paging.Range
	Total   int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string

	// SelfURL is the current list (filters, page) for return links.
	SelfURL string
}

// ServeList renders the resource list: the full set goes through
// resourceview.Compute (visibility, filters, sort) and is then paged.
// GET /resources
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	params := resourceview.ParseParams(r)
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Repo.FetchAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch resources failed", err, "A database error occurred.", "/")
		return
	}
	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/")
		return
	}

	visible := resourceview.Compute(all, authz.Viewer(r), params)
	h.Metrics.ObserveList(len(visible))
	page := paging.Slice(visible, start)

	names := categoryNames(cats)
	rows := make([]resourceRow, 0, len(page.Rows))
	for _, res := range page.Rows {
		rows = append(rows, toRow(r, res, names))
	}

	data := listData{
		BaseVM:          viewdata.NewBaseVM(r, "Resources", "/"),
		Params:          params,
		StatusOptions:   resourceview.StatusOptions(params.Status),
		TypeOptions:     resourceview.TypeOptions(params.Type),
		CategoryOptions: resourceview.CategoryOptions(cats, params.Category),
		SortOptions:     resourceview.SortOptions(params.Sort),
		SortLabel:       params.Sort.Label(),
		IsFiltered:      !params.IsDefault(),
		Rows:            rows,
		Range:           page.Range,
		Total:           page.Total,
		HasPrev:         page.HasPrev,
		HasNext:         page.HasNext,
		PrevURL:         listURL(params, page.PrevStart),
		NextURL:         listURL(params, page.NextStart),
		SelfURL:         listURL(params, page.Start),
	}

	// HTMX swaps only the table when the filter form changes.
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "resources-table-wrap" {
		templates.RenderSnippet(w, "resources_table", data)
		return
	}

	templates.Render(w, r, "resources_list", data)
}

func toRow(r *http.Request, res models.Resource, names map[string]string) resourceRow {
	return resourceRow{
		ID:           res.ID.Hex(),
		Name:         res.Name,
		Type:         string(res.Type),
		TypeLabel:    res.Type.Label(),
		Status:       string(res.Status),
		StatusLabel:  res.Status.Label(),
		CategoryName: categoryName(names, res.CategoryID),
		CreatedBy:    res.CreatedByName,
		CreatedAt:    res.CreatedAt.Format(dateLayout),
		CanManage:    authz.CanManageResource(r, res),
	}
}

// listURL builds a list link that keeps the filters. start <= 1 is omitted.
func listURL(p resourceview.Params, start int) string {
	v := p.Values()
	if start > 1 {
		v.Set("start", strconv.Itoa(start))
	}
	if len(v) == 0 {
		return "/resources"
	}
	return "/resources?" + v.Encode()
}
