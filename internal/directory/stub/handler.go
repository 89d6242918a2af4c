package stub

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/employee"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context) ([]employee.Employee, error)
	UpdateHierarchy(ctx context.Context, employeeID string, h employee.Hierarchy) error
	ListDepartments(ctx context.Context) ([]department.Department, error)
	CreateDepartment(ctx context.Context, dto department.SaveDepartmentDTO) (*department.Department, error)
	UpdateDepartment(ctx context.Context, id string, dto department.SaveDepartmentDTO) (*department.Department, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Routes mounts the directory API. Anything else answers with a 404 envelope.
func (h *Handler) Routes(r chi.Router) {
	r.NotFound(h.NotImplemented)
	r.MethodNotAllowed(h.NotImplemented)
	r.Route("/api", func(r chi.Router) {
		r.Get("/employees", h.ListEmployees)
		r.Put("/hierarchy/{employeeID}", h.UpdateHierarchy)
		r.Get("/departments", h.ListDepartments)
		r.Post("/departments", h.CreateDepartment)
		r.Put("/departments/{id}", h.UpdateDepartment)
	})
}

func (h *Handler) NotImplemented(w http.ResponseWriter, r *http.Request) {
	h.Logger.Debug("stub endpoint not implemented", "method", r.Method, "path", r.URL.Path)
	h.WriteJSON(w, http.StatusNotFound, transport.Envelope{
		Success: false,
		Error:   "Endpoint not available in the stub directory",
	})
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, employees)
}

func (h *Handler) UpdateHierarchy(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var body employee.Hierarchy
	if err := h.DecodeJSON(r, &body); err != nil {
		h.WriteAppError(w, err)
		return
	}

	if err := h.Service.UpdateHierarchy(r.Context(), employeeID, body); err != nil {
		h.reject(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"employeeId": employeeID})
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, departments)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto department.SaveDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	dept, err := h.Service.CreateDepartment(r.Context(), dto)
	if err != nil {
		h.reject(w, err)
		return
	}
	h.WriteData(w, http.StatusCreated, dept)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto department.SaveDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	dept, err := h.Service.UpdateDepartment(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.reject(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, dept)
}

// reject reports rule violations in-band as a 200 success:false envelope, the way the
// directory does. Server faults keep their status code.
func (h *Handler) reject(w http.ResponseWriter, err error) {
	appErr := transport.ToAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.WriteAppError(w, err)
		return
	}
	h.Logger.Info("stub rejected request", "code", appErr.Code, "error", appErr.GetDetailedMessage())
	h.WriteJSON(w, http.StatusOK, transport.Envelope{
		Success: false,
		Error:   appErr.GetDetailedMessage(),
		Code:    string(appErr.Code),
		Details: appErr.Details,
	})
}
