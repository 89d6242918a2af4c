package department

import (
	departmentDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/department"
)

type Department struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Code     string  `json:"code,omitempty"`
	ParentID *string `json:"parentId"`
	HeadID   *string `json:"headId"`
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:       d.ID,
		Name:     d.Name,
		Code:     d.Code,
		ParentID: d.ParentID,
		HeadID:   d.HeadID,
	}
}

func FromDataModel(d *departmentDatamodel.Department) Department {
	return Department{
		ID:       d.ID,
		Name:     d.Name,
		Code:     d.Code,
		ParentID: d.ParentID,
		HeadID:   d.HeadID,
	}
}

func FromDataModelSlice(rows []*departmentDatamodel.Department) []Department {
	result := make([]Department, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
