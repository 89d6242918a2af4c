package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/internal/employee"
)

// DirectoryAPI is the part of the directory backend the hierarchy needs.
type DirectoryAPI interface {
	ListEmployees(ctx context.Context) ([]employee.Employee, error)
	UpdateHierarchy(ctx context.Context, employeeID string, h employee.Hierarchy) error
}

type Service struct {
	directory DirectoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	maxDepth  int
}

func NewService(directory DirectoryAPI, publisher events.Publisher, logger *slog.Logger, maxDepth int) *Service {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Service{
		directory: directory,
		publisher: publisher,
		logger:    logger,
		maxDepth:  maxDepth,
	}
}

// ReparentOutcome describes what a move did. Forest is the rebuilt hierarchy and is nil
// when the move was cancelled or the refresh after it failed.
type ReparentOutcome struct {
	Cancelled            bool    `json:"cancelled"`
	EmployeeID           string  `json:"employeeId"`
	SupervisorID         string  `json:"supervisorId"`
	PreviousSupervisorID *string `json:"previousSupervisorId"`
	Forest               *Forest `json:"-"`
}

// TreeView is the render model of a whole forest.
type TreeView struct {
	Roots    []NodeView `json:"roots"`
	Detached []NodeView `json:"detached"`
	Size     int        `json:"size"`
}

// Tree fetches the employee list and assembles it from scratch.
func (s *Service) Tree(ctx context.Context) (*Forest, error) {
	employees, err := s.directory.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("failed to fetch employees", "error", err)
		return nil, err
	}

	forest := NewForest(employees)
	if len(forest.Detached) > 0 {
		s.logger.Warn("employees unreachable from any root, likely a reporting cycle",
			"detached", len(forest.Detached))
	}
	s.logger.Info("hierarchy assembled", "employees", forest.Size, "roots", len(forest.Roots))
	return forest, nil
}

// View renders a forest with the configured depth cap.
func (s *Service) View(forest *Forest) TreeView {
	if forest == nil {
		return TreeView{Roots: []NodeView{}, Detached: []NodeView{}}
	}
	return TreeView{
		Roots:    View(forest.Roots, s.maxDepth),
		Detached: View(forest.Detached, s.maxDepth),
		Size:     forest.Size,
	}
}

func (s *Service) MaxDepth() int {
	return s.maxDepth
}

// Reparent moves employeeID under supervisorID. Dropping an employee onto itself is a
// no-op. Cycles are left for the directory to reject; its message comes back as the error.
// The other attachment fields of the employee are preserved.
func (s *Service) Reparent(ctx context.Context, employeeID, supervisorID string) (*ReparentOutcome, error) {
	employeeID = strings.TrimSpace(employeeID)
	supervisorID = strings.TrimSpace(supervisorID)

	if employeeID == "" {
		return nil, internal.NewValidationError("employee id is required", internal.ErrCodeInvalidEmployee)
	}
	if err := (ReparentDTO{SupervisorID: supervisorID}).Validate(); err != nil {
		return nil, err
	}

	outcome := &ReparentOutcome{EmployeeID: employeeID, SupervisorID: supervisorID}
	if employeeID == supervisorID {
		s.logger.Debug("reparent onto self ignored", "employee_id", employeeID)
		outcome.Cancelled = true
		return outcome, nil
	}

	employees, err := s.directory.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("failed to fetch employees before reparent", "error", err)
		return nil, err
	}

	current, ok := employee.FindByID(employees, employeeID)
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}

	attachment := current.AttachmentOrEmpty()
	outcome.PreviousSupervisorID = attachment.ReportsTo
	attachment.ReportsTo = &supervisorID

	if err := s.directory.UpdateHierarchy(ctx, employeeID, attachment); err != nil {
		s.logger.Warn("directory rejected reparent",
			"employee_id", employeeID,
			"supervisor_id", supervisorID,
			"error", err)
		return nil, err
	}

	s.logger.Info("employee reparented",
		"employee_id", employeeID,
		"supervisor_id", supervisorID)
	s.publish(ctx, events.NewHierarchyReparentedEvent(employeeID, outcome.PreviousSupervisorID, supervisorID))

	forest, err := s.Tree(ctx)
	if err != nil {
		return outcome, fmt.Errorf("reparent applied but refresh failed: %w", err)
	}
	outcome.Forest = forest
	return outcome, nil
}

// UpdateAttachment replaces the hierarchy attachment of one employee and rebuilds the forest.
func (s *Service) UpdateAttachment(ctx context.Context, employeeID string, dto UpdateAttachmentDTO) (*Forest, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, internal.NewValidationError("employee id is required", internal.ErrCodeInvalidEmployee)
	}

	dto = dto.normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.ReportsTo != nil && *dto.ReportsTo == employeeID {
		return nil, internal.ErrSelfReport
	}

	attachment := employee.Hierarchy{
		ReportsTo:    dto.ReportsTo,
		Level:        dto.Level,
		DepartmentID: dto.DepartmentID,
		CanApprove:   dto.CanApprove,
	}
	if err := s.directory.UpdateHierarchy(ctx, employeeID, attachment); err != nil {
		s.logger.Warn("directory rejected attachment update", "employee_id", employeeID, "error", err)
		return nil, err
	}

	s.logger.Info("hierarchy attachment updated", "employee_id", employeeID)
	s.publish(ctx, events.NewHierarchyAttachmentUpdatedEvent(employeeID, dto.ReportsTo, dto.Level, dto.DepartmentID, dto.CanApprove))

	forest, err := s.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("attachment updated but refresh failed: %w", err)
	}
	return forest, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
