package department

import (
	"context"
	"net/http"
	"sort"

	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
)

type DirectoryAPI interface {
	ListDepartments(ctx context.Context) ([]Department, error)
}

type Handler struct {
	*transport.BaseHandler
	Directory DirectoryAPI
}

func NewHandler(baseHandler *transport.BaseHandler, directory DirectoryAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Directory:   directory,
	}
}

// ListDepartments returns every department ordered by name.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Directory.ListDepartments(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	sort.SliceStable(departments, func(i, j int) bool {
		return departments[i].Name < departments[j].Name
	})
	h.WriteData(w, http.StatusOK, departments)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/departments", h.ListDepartments)
}
