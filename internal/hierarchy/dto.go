package hierarchy

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ReparentDTO is the body of a drag-and-drop move.
type ReparentDTO struct {
	SupervisorID string `json:"supervisorId"`
}

func (dto ReparentDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.SupervisorID, validation.Required, validation.Length(1, 64)),
	)
}

// UpdateAttachmentDTO edits every hierarchy field of one employee at once.
type UpdateAttachmentDTO struct {
	ReportsTo    *string `json:"reportsTo"`
	Level        *int    `json:"level"`
	DepartmentID *string `json:"departmentId"`
	CanApprove   bool    `json:"canApprove"`
}

func (dto UpdateAttachmentDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.ReportsTo, validation.NilOrNotEmpty, validation.Length(1, 64)),
		validation.Field(&dto.Level, validation.Min(0), validation.Max(98)),
		validation.Field(&dto.DepartmentID, validation.NilOrNotEmpty),
	)
}

// normalize turns blank optional ids into nil.
func (dto UpdateAttachmentDTO) normalize() UpdateAttachmentDTO {
	dto.ReportsTo = blankToNil(dto.ReportsTo)
	dto.DepartmentID = blankToNil(dto.DepartmentID)
	return dto
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
