// internal/app/features/about/handler.go
package about

import (
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type term struct {
	Label string
	Text  string
}

type pageData struct {
	viewdata.BaseVM
	Types    []term
	Statuses []term
}

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

var typeText = map[models.ResourceType]string{
	models.ResourceTypeActivity: "Something to do: a workshop, an outing, a lesson plan.",
	models.ResourceTypeGame:     "A game to play alone or with others.",
	models.ResourceTypeDocument: "Something to read: a guide, an article, a worksheet.",
}

var statusText = map[models.ResourceStatus]string{
	models.ResourceStatusPublic:    "Visible to everyone, including visitors who are not signed in.",
	models.ResourceStatusPrivate:   "Visible to signed-in members only.",
	models.ResourceStatusDraft:     "Work in progress. Signed-in members can already see it.",
	models.ResourceStatusSuspended: "Taken down pending review. Signed-in members can still see it.",
}

// ServeAbout handles GET /about: what the catalog holds and who sees what.
// The term lists come from the model so new types or statuses show up here
// without a template change.
func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	data := pageData{BaseVM: viewdata.NewBaseVM(r, "About", "/resources")}
	for _, t := range models.ResourceTypes {
		data.Types = append(data.Types, term{Label: t.Label(), Text: typeText[t]})
	}
	for _, s := range models.ResourceStatuses {
		data.Statuses = append(data.Statuses, term{Label: s.Label(), Text: statusText[s]})
	}
	templates.Render(w, r, "about", data)
}
