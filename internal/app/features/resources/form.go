// internal/app/features/resources/form.go
package resources

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/resourcehub/internal/app/system/inputval"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resourceInput is the create/edit form as submitted.
type resourceInput struct {
	Name        string `validate:"required,max=200" label:"Name"`
	Description string `validate:"max=10000" label:"Description"`
	Type        string `validate:"required,oneof=activity game document" label:"Type"`
	Status      string `validate:"required,oneof=private public draft suspended" label:"Status"`
	Category    string `validate:"omitempty,objectid" label:"Category"`
}

func parseInput(r *http.Request) resourceInput {
	return resourceInput{
		Name:        normalize.Name(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Type:        strings.ToLower(strings.TrimSpace(r.FormValue("type"))),
		Status:      strings.ToLower(strings.TrimSpace(r.FormValue("status"))),
		Category:    normalize.FilterID(r.FormValue("category")),
	}
}

func inputFrom(res models.Resource) resourceInput {
	in := resourceInput{
		Name:        res.Name,
		Description: res.Description,
		Type:        string(res.Type),
		Status:      string(res.Status),
	}
	if res.CategoryID != nil {
		in.Category = res.CategoryID.Hex()
	}
	return in
}

// validate checks the form and resolves the category against the known set.
// It returns a user-facing message, or "" when the input is acceptable.
func (h *Handler) validate(ctx context.Context, in resourceInput) (string, *primitive.ObjectID, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return res.First(), nil, nil
	}
	if in.Category == "" {
		return "", nil, nil
	}
	oid, _ := primitive.ObjectIDFromHex(in.Category)
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return "", nil, err
	}
	for _, c := range cats {
		if c.ID == oid {
			return "", &oid, nil
		}
	}
	return "The selected category does not exist.", nil, nil
}

// toModel builds the mutable part of a resource from validated input.
func (in resourceInput) toModel(categoryID *primitive.ObjectID) models.Resource {
	return models.Resource{
		Name:        in.Name,
		Description: htmlsanitize.Clean(in.Description),
		Type:        models.ResourceType(in.Type),
		Status:      models.ResourceStatus(in.Status),
		CategoryID:  categoryID,
	}
}

type formData struct {
	formutil.Base
	resourceInput

	ID     string // empty for new
	Action string

	StatusOptions   []resourceview.Option
	TypeOptions     []resourceview.Option
	CategoryOptions []resourceview.Option
	ReturnURL       string
}

// renderForm renders the shared new/edit form. A new form defaults type and
// status; edit passes the stored values.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in resourceInput, errMsg string) {
	ctx := r.Context()
	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/resources")
		return
	}

	if in.Type == "" {
		in.Type = string(models.DefaultResourceType)
	}
	if in.Status == "" {
		in.Status = string(models.DefaultResourceStatus)
	}

	title, action := "New resource", "/resources"
	if id != "" {
		title, action = "Edit resource", "/resources/"+id+"/edit"
	}

	data := formData{
		resourceInput:   in,
		ID:              id,
		Action:          action,
		StatusOptions:   resourceview.StatusOptions(in.Status)[1:],
		TypeOptions:     resourceview.TypeOptions(in.Type)[1:],
		CategoryOptions: resourceview.CategoryOptions(cats, in.Category)[1:],
		ReturnURL:       navigation.SafeBackURL(r, navigation.ResourcesBackURL),
	}
	formutil.SetBase(&data.Base, r, title, "/resources")
	if errMsg != "" {
		data.SetError(errMsg)
	}
	w.WriteHeader(status)
	templates.Render(w, r, "resource_form", data)
}
