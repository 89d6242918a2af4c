package employee

import "time"

type Employee struct {
	ID             string    `gorm:"primaryKey;column:id"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email;index"`
	JobTitle       string    `gorm:"column:job_title"`
	DepartmentName string    `gorm:"column:department_name"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

// Hierarchy is the optional reporting attachment of one employee.
type Hierarchy struct {
	EmployeeID   string    `gorm:"primaryKey;column:employee_id"`
	ReportsTo    *string   `gorm:"column:reports_to;index"`
	Level        *int      `gorm:"column:level"`
	DepartmentID *string   `gorm:"column:department_id"`
	CanApprove   bool      `gorm:"column:can_approve;default:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Hierarchy) TableName() string {
	return "employee_hierarchy"
}

// EmployeeWithHierarchy is the LEFT JOIN read model of the employee listing.
type EmployeeWithHierarchy struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Email          string  `db:"email"`
	JobTitle       string  `db:"job_title"`
	DepartmentName string  `db:"department_name"`
	HasHierarchy   bool    `db:"has_hierarchy"`
	ReportsTo      *string `db:"reports_to"`
	Level          *int    `db:"level"`
	DepartmentID   *string `db:"department_id"`
	CanApprove     *bool   `db:"can_approve"`
}
