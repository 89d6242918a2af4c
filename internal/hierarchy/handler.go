package hierarchy

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Tree(ctx context.Context) (*Forest, error)
	View(forest *Forest) TreeView
	Reparent(ctx context.Context, employeeID, supervisorID string) (*ReparentOutcome, error)
	UpdateAttachment(ctx context.Context, employeeID string, dto UpdateAttachmentDTO) (*Forest, error)
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

// ReparentResponse is returned by a move; Tree is absent when the move was cancelled.
type ReparentResponse struct {
	Outcome *ReparentOutcome `json:"outcome"`
	Tree    *TreeView        `json:"tree,omitempty"`
}

func (h *Handler) GetTree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.Service.Tree(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, h.Service.View(forest))
}

func (h *Handler) Reparent(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var dto ReparentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	outcome, err := h.Service.Reparent(r.Context(), employeeID, dto.SupervisorID)
	if err != nil && outcome != nil {
		// the directory accepted the move; only the rebuilt tree is missing
		h.Logger.Warn("reparent applied but tree refresh failed",
			"employee_id", outcome.EmployeeID,
			"supervisor_id", outcome.SupervisorID,
			"error", err)
		h.WriteJSON(w, http.StatusBadGateway, transport.Envelope{
			Success: false,
			Error:   "Move applied but the tree could not be reloaded",
			Code:    string(internal.ErrCodeRefreshFailed),
			Details: ReparentResponse{Outcome: outcome},
		})
		return
	}
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	resp := ReparentResponse{Outcome: outcome}
	if outcome.Forest != nil {
		view := h.Service.View(outcome.Forest)
		resp.Tree = &view
	}
	h.WriteData(w, http.StatusOK, resp)
}

func (h *Handler) UpdateAttachment(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	var dto UpdateAttachmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	forest, err := h.Service.UpdateAttachment(r.Context(), employeeID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, h.Service.View(forest))
}

// Routes mounts the hierarchy endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/hierarchy/tree", h.GetTree)
	r.Put("/hierarchy/{employeeID}/reports-to", h.Reparent)
	r.Put("/hierarchy/{employeeID}", h.UpdateAttachment)
}
