package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal/core/events"
)

// AuditHandler writes hierarchy changes to the audit log.
type AuditHandler struct {
	logger *slog.Logger
}

func NewAuditHandler(logger *slog.Logger) *AuditHandler {
	return &AuditHandler{logger: logger.With("component", "hierarchy_audit")}
}

func (h *AuditHandler) HandleReparented(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.HierarchyReparentedEvent)
	if !ok {
		h.logger.Error("invalid event type for reparented handler", "event_type", event.EventType())
		return fmt.Errorf("expected HierarchyReparentedEvent, got %T", event)
	}

	previous := ""
	if e.PreviousSupervisorID != nil {
		previous = *e.PreviousSupervisorID
	}
	h.logger.Info("reporting line changed",
		"event_id", e.EventID(),
		"employee_id", e.EmployeeID,
		"previous_supervisor_id", previous,
		"new_supervisor_id", e.NewSupervisorID,
		"occurred_at", e.OccurredAt())
	return nil
}

func (h *AuditHandler) HandleAttachmentUpdated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.HierarchyAttachmentUpdatedEvent)
	if !ok {
		h.logger.Error("invalid event type for attachment handler", "event_type", event.EventType())
		return fmt.Errorf("expected HierarchyAttachmentUpdatedEvent, got %T", event)
	}

	h.logger.Info("hierarchy attachment changed",
		"event_id", e.EventID(),
		"employee_id", e.EmployeeID,
		"payload", e.Payload())
	return nil
}

func (h *AuditHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeHierarchyReparented, h.HandleReparented)
	eventBus.Subscribe(events.EventTypeHierarchyAttachmentUpdated, h.HandleAttachmentUpdated)
}
