package department

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SaveDepartmentDTO is the payload for creating or updating a department.
type SaveDepartmentDTO struct {
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	ParentID *string `json:"parentId"`
	HeadID   *string `json:"headId"`
}

func (dto SaveDepartmentDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&dto.Code, validation.Length(0, 32)),
	)
}
