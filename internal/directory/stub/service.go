// Package stub is a development stand-in for the directory backend. It speaks the same
// envelope contract over a SQL store and enforces the hierarchy rules the real backend owns.
package stub

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal"
	departmentDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/employee"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	ListEmployees(ctx context.Context) ([]*employeeDatamodel.EmployeeWithHierarchy, error)
	EmployeeExists(ctx context.Context, id string) (bool, error)
	// ReportsToMap returns employee id -> supervisor id for every hierarchy row.
	ReportsToMap(ctx context.Context) (map[string]*string, error)
	UpsertHierarchy(ctx context.Context, row *employeeDatamodel.Hierarchy) error

	ListDepartments(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetDepartment(ctx context.Context, id string) (*departmentDatamodel.Department, error)
	CreateDepartment(ctx context.Context, row *departmentDatamodel.Department) error
	UpdateDepartment(ctx context.Context, row *departmentDatamodel.Department) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	rows, err := s.repo.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return employee.FromDataModelSlice(rows), nil
}

// UpdateHierarchy replaces the attachment of employeeID after checking that the new
// supervisor exists, is not the employee and does not report up to the employee.
func (s *Service) UpdateHierarchy(ctx context.Context, employeeID string, h employee.Hierarchy) error {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return internal.NewInternalError("failed to load employee", err)
	}
	if !exists {
		return internal.ErrEmployeeNotFound
	}

	if h.Level != nil && (*h.Level < 0 || *h.Level >= employee.UnleveledRank) {
		return internal.NewValidationError("level must be between 0 and 98", internal.ErrCodeInvalidLevel)
	}

	if h.ReportsTo != nil {
		if err := s.checkSupervisor(ctx, employeeID, *h.ReportsTo); err != nil {
			s.logger.Info("hierarchy update rejected",
				"employee_id", employeeID,
				"supervisor_id", *h.ReportsTo,
				"reason", err)
			return err
		}
	}

	if h.DepartmentID != nil {
		dept, err := s.repo.GetDepartment(ctx, *h.DepartmentID)
		if err != nil {
			return internal.NewInternalError("failed to load department", err)
		}
		if dept == nil {
			return internal.ErrDepartmentNotFound
		}
	}

	if err := s.repo.UpsertHierarchy(ctx, employee.HierarchyToDataModel(employeeID, h)); err != nil {
		s.logger.Error("failed to store hierarchy", "employee_id", employeeID, "error", err)
		return internal.NewInternalError("failed to update hierarchy", err)
	}

	s.logger.Info("hierarchy updated", "employee_id", employeeID)
	return nil
}

func (s *Service) checkSupervisor(ctx context.Context, employeeID, supervisorID string) error {
	if supervisorID == employeeID {
		return internal.ErrSelfReport
	}

	exists, err := s.repo.EmployeeExists(ctx, supervisorID)
	if err != nil {
		return internal.NewInternalError("failed to load supervisor", err)
	}
	if !exists {
		return internal.ErrSupervisorNotFound
	}

	reportsTo, err := s.repo.ReportsToMap(ctx)
	if err != nil {
		return internal.NewInternalError("failed to load hierarchy", err)
	}
	if wouldCycle(reportsTo, employeeID, supervisorID) {
		return internal.ErrReportingCycle
	}
	return nil
}

// wouldCycle walks the chain above supervisorID and reports whether it reaches employeeID.
// Loops already present in the data end the walk.
func wouldCycle(reportsTo map[string]*string, employeeID, supervisorID string) bool {
	seen := make(map[string]struct{})
	current := supervisorID
	for {
		if current == employeeID {
			return true
		}
		if _, ok := seen[current]; ok {
			return false
		}
		seen[current] = struct{}{}

		next, ok := reportsTo[current]
		if !ok || next == nil {
			return false
		}
		current = *next
	}
}

func (s *Service) ListDepartments(ctx context.Context) ([]department.Department, error) {
	rows, err := s.repo.ListDepartments(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return department.FromDataModelSlice(rows), nil
}

func (s *Service) CreateDepartment(ctx context.Context, dto department.SaveDepartmentDTO) (*department.Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept := &department.Department{
		ID:       uuid.New().String(),
		Name:     dto.Name,
		Code:     dto.Code,
		ParentID: dto.ParentID,
		HeadID:   dto.HeadID,
	}
	if err := s.checkDepartmentRefs(ctx, dept); err != nil {
		return nil, err
	}

	if err := s.repo.CreateDepartment(ctx, department.ToDataModel(dept)); err != nil {
		s.logger.Error("failed to create department", "error", err)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return dept, nil
}

func (s *Service) UpdateDepartment(ctx context.Context, id string, dto department.SaveDepartmentDTO) (*department.Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load department", err)
	}
	if existing == nil {
		return nil, internal.ErrDepartmentNotFound
	}

	dept := &department.Department{
		ID:       id,
		Name:     dto.Name,
		Code:     dto.Code,
		ParentID: dto.ParentID,
		HeadID:   dto.HeadID,
	}
	if err := s.checkDepartmentRefs(ctx, dept); err != nil {
		return nil, err
	}

	row := department.ToDataModel(dept)
	row.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateDepartment(ctx, row); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update department", err)
	}
	return dept, nil
}

func (s *Service) checkDepartmentRefs(ctx context.Context, dept *department.Department) error {
	if dept.ParentID != nil {
		if *dept.ParentID == dept.ID {
			return internal.NewValidationError("a department cannot be its own parent", internal.ErrCodeValidationFailed)
		}
		parent, err := s.repo.GetDepartment(ctx, *dept.ParentID)
		if err != nil {
			return internal.NewInternalError("failed to load parent department", err)
		}
		if parent == nil {
			return internal.ErrDepartmentNotFound
		}
	}
	if dept.HeadID != nil {
		exists, err := s.repo.EmployeeExists(ctx, *dept.HeadID)
		if err != nil {
			return internal.NewInternalError("failed to load department head", err)
		}
		if !exists {
			return internal.ErrEmployeeNotFound
		}
	}
	return nil
}
