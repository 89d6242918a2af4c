package employee

import (
	employeeDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/employee"
)

// UnleveledRank is the rank used when an employee carries no hierarchy level, so they sort last.
const UnleveledRank = 99

type Employee struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	JobTitle       string     `json:"jobTitle,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	Hierarchy      *Hierarchy `json:"hierarchy,omitempty"`
}

// Hierarchy is the reporting attachment as exchanged with the directory backend.
type Hierarchy struct {
	ReportsTo    *string `json:"reportsTo"`
	Level        *int    `json:"level,omitempty"`
	DepartmentID *string `json:"departmentId"`
	CanApprove   bool    `json:"canApprove"`
}

// ReportsTo returns the supervisor id, or "" when the employee is unattached.
func (e *Employee) ReportsTo() string {
	if e.Hierarchy == nil || e.Hierarchy.ReportsTo == nil {
		return ""
	}
	return *e.Hierarchy.ReportsTo
}

// Rank is the hierarchy level used for ordering; lower is more senior.
func (e *Employee) Rank() int {
	if e.Hierarchy == nil || e.Hierarchy.Level == nil {
		return UnleveledRank
	}
	return *e.Hierarchy.Level
}

// AttachmentOrEmpty returns a copy of the attachment so callers can modify it freely.
func (e *Employee) AttachmentOrEmpty() Hierarchy {
	if e.Hierarchy == nil {
		return Hierarchy{}
	}
	h := *e.Hierarchy
	return h
}

func FindByID(employees []Employee, id string) (*Employee, bool) {
	for i := range employees {
		if employees[i].ID == id {
			return &employees[i], true
		}
	}
	return nil, false
}

func ToDataModel(e *Employee) (*employeeDatamodel.Employee, *employeeDatamodel.Hierarchy) {
	row := &employeeDatamodel.Employee{
		ID:             e.ID,
		Name:           e.Name,
		Email:          e.Email,
		JobTitle:       e.JobTitle,
		DepartmentName: e.DepartmentName,
		IsActive:       true,
	}
	if e.Hierarchy == nil {
		return row, nil
	}
	return row, HierarchyToDataModel(e.ID, *e.Hierarchy)
}

func HierarchyToDataModel(employeeID string, h Hierarchy) *employeeDatamodel.Hierarchy {
	return &employeeDatamodel.Hierarchy{
		EmployeeID:   employeeID,
		ReportsTo:    h.ReportsTo,
		Level:        h.Level,
		DepartmentID: h.DepartmentID,
		CanApprove:   h.CanApprove,
	}
}

func FromDataModel(row *employeeDatamodel.EmployeeWithHierarchy) Employee {
	e := Employee{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		JobTitle:       row.JobTitle,
		DepartmentName: row.DepartmentName,
	}
	if row.HasHierarchy {
		e.Hierarchy = &Hierarchy{
			ReportsTo:    row.ReportsTo,
			Level:        row.Level,
			DepartmentID: row.DepartmentID,
			CanApprove:   row.CanApprove != nil && *row.CanApprove,
		}
	}
	return e
}

func FromDataModelSlice(rows []*employeeDatamodel.EmployeeWithHierarchy) []Employee {
	result := make([]Employee, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
