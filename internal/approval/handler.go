// Package approval exposes the directory's approval inbox through the BFF.
package approval

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type DirectoryAPI interface {
	ListPendingApprovals(ctx context.Context) ([]directory.PendingApproval, error)
	Approve(ctx context.Context, id string, decision directory.ApprovalDecision) error
	Reject(ctx context.Context, id string, decision directory.ApprovalDecision) error
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

// DecisionResponse echoes the decision that was forwarded.
type DecisionResponse struct {
	ID       string `json:"id"`
	Decision string `json:"decision"`
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Directory.ListPendingApprovals(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	if pending == nil {
		pending = []directory.PendingApproval{}
	}
	h.WriteData(w, http.StatusOK, pending)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "approved", h.Directory.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "rejected", h.Directory.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, label string, forward func(context.Context, string, directory.ApprovalDecision) error) {
	id := chi.URLParam(r, "id")

	var decision directory.ApprovalDecision
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &decision); err != nil {
			h.WriteAppError(w, err)
			return
		}
	}

	if err := validation.Validate(decision.Note, validation.Length(0, 500)); err != nil {
		h.WriteAppError(w, internal.NewValidationError("note: "+err.Error(), internal.ErrCodeValidationFailed))
		return
	}

	if err := forward(r.Context(), id, decision); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.Logger.Info("approval decision forwarded", "approval_id", id, "decision", label)
	h.WriteData(w, http.StatusOK, DecisionResponse{ID: id, Decision: label})
}

// Routes mounts the approval endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/approvals", func(r chi.Router) {
		r.Get("/pending", h.ListPending)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/reject", h.Reject)
	})
}
