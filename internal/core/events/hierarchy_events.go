package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeHierarchyReparented        = "hierarchy.reparented"
	EventTypeHierarchyAttachmentUpdated = "hierarchy.attachment_updated"
)

// HierarchyReparentedEvent is published after the directory accepted a new supervisor.
type HierarchyReparentedEvent struct {
	BaseEvent
	EmployeeID           string  `json:"employee_id"`
	PreviousSupervisorID *string `json:"previous_supervisor_id"`
	NewSupervisorID      string  `json:"new_supervisor_id"`
}

func NewHierarchyReparentedEvent(employeeID string, previousSupervisorID *string, newSupervisorID string) *HierarchyReparentedEvent {
	var previous interface{}
	if previousSupervisorID != nil {
		previous = *previousSupervisorID
	}
	return &HierarchyReparentedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeHierarchyReparented,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id":            employeeID,
				"previous_supervisor_id": previous,
				"new_supervisor_id":      newSupervisorID,
			},
		},
		EmployeeID:           employeeID,
		PreviousSupervisorID: previousSupervisorID,
		NewSupervisorID:      newSupervisorID,
	}
}

// HierarchyAttachmentUpdatedEvent is published after an attachment edit was accepted.
type HierarchyAttachmentUpdatedEvent struct {
	BaseEvent
	EmployeeID   string  `json:"employee_id"`
	ReportsTo    *string `json:"reports_to"`
	Level        *int    `json:"level"`
	DepartmentID *string `json:"department_id"`
	CanApprove   bool    `json:"can_approve"`
}

func NewHierarchyAttachmentUpdatedEvent(employeeID string, reportsTo *string, level *int, departmentID *string, canApprove bool) *HierarchyAttachmentUpdatedEvent {
	return &HierarchyAttachmentUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeHierarchyAttachmentUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id":   employeeID,
				"reports_to":    reportsTo,
				"level":         level,
				"department_id": departmentID,
				"can_approve":   canApprove,
			},
		},
		EmployeeID:   employeeID,
		ReportsTo:    reportsTo,
		Level:        level,
		DepartmentID: departmentID,
		CanApprove:   canApprove,
	}
}
