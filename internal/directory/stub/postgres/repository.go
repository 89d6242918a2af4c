package postgres

import (
	"context"
	"errors"
	"fmt"

	departmentDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-portal/internal/directory/stub"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const listEmployeesQuery = `
SELECT e.id,
       e.name,
       COALESCE(e.email, '') AS email,
       COALESCE(e.job_title, '') AS job_title,
       COALESCE(e.department_name, '') AS department_name,
       h.employee_id IS NOT NULL AS has_hierarchy,
       h.reports_to,
       h.level,
       h.department_id,
       h.can_approve
FROM employees e
LEFT JOIN employee_hierarchy h ON h.employee_id = e.id
WHERE e.is_active = ?
ORDER BY e.name ASC, e.id ASC`

// DirectoryRepository writes through gorm and reads the joined employee listing through sqlx.
type DirectoryRepository struct {
	db   *gorm.DB
	read *sqlx.DB
}

func NewDirectoryRepository(db *gorm.DB) (stub.RepositoryAPI, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	return &DirectoryRepository{
		db:   db,
		read: sqlx.NewDb(sqlDB, sqlxDriverName(db.Dialector.Name())),
	}, nil
}

// sqlxDriverName maps a gorm dialect onto the driver name sqlx uses to pick bind variables.
func sqlxDriverName(dialect string) string {
	switch dialect {
	case "postgres":
		return "pgx"
	case "sqlite":
		return "sqlite3"
	default:
		return dialect
	}
}

func (r *DirectoryRepository) ListEmployees(ctx context.Context) ([]*employeeDatamodel.EmployeeWithHierarchy, error) {
	var rows []*employeeDatamodel.EmployeeWithHierarchy
	if err := r.read.SelectContext(ctx, &rows, r.read.Rebind(listEmployeesQuery), true); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryRepository) EmployeeExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

func (r *DirectoryRepository) ReportsToMap(ctx context.Context) (map[string]*string, error) {
	var rows []employeeDatamodel.Hierarchy
	if err := r.db.WithContext(ctx).Select("employee_id", "reports_to").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]*string, len(rows))
	for _, row := range rows {
		out[row.EmployeeID] = row.ReportsTo
	}
	return out, nil
}

func (r *DirectoryRepository) UpsertHierarchy(ctx context.Context, row *employeeDatamodel.Hierarchy) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reports_to", "level", "department_id", "can_approve", "updated_at"}),
	}).Create(row).Error
}

func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DirectoryRepository) GetDepartment(ctx context.Context, id string) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DirectoryRepository) CreateDepartment(ctx context.Context, row *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *DirectoryRepository) UpdateDepartment(ctx context.Context, row *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Save(row).Error
}
