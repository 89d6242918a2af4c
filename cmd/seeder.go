package cmd

import (
	"context"
	"fmt"
	"log"

	departmentDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/employee"
	stubPostgres "github.com/frahmantamala/hr-portal/internal/directory/stub/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the stub directory with sample data",
	Long:  `Seed the stub directory database with a sample organisation for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := bootstrap()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := stubPostgres.Open(context.Background(), cfg.Stub.Database, logger)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		if err := stubPostgres.AutoMigrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}

		if err := seed(db, clearData); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Seeding completed")
	},
}

type seedEmployee struct {
	id, name, title, department string
	reportsTo, departmentID     string
	level                       int
	canApprove                  bool
}

var seedDepartments = []departmentDatamodel.Department{
	{ID: "dept-exec", Name: "Executive Office", Code: "EXEC"},
	{ID: "dept-eng", Name: "Engineering", Code: "ENG"},
	{ID: "dept-fin", Name: "Finance", Code: "FIN"},
}

var seedEmployees = []seedEmployee{
	{id: "E001", name: "Aisyah Rahman", title: "Chief Executive Officer", department: "Executive Office", departmentID: "dept-exec", level: 1, canApprove: true},
	{id: "E002", name: "Tan Wei Ming", title: "Chief Technology Officer", department: "Engineering", departmentID: "dept-eng", reportsTo: "E001", level: 2, canApprove: true},
	{id: "E003", name: "Priya Nair", title: "Head of Finance", department: "Finance", departmentID: "dept-fin", reportsTo: "E001", level: 2, canApprove: true},
	{id: "E004", name: "Muhammad Hafiz", title: "Engineering Manager", department: "Engineering", departmentID: "dept-eng", reportsTo: "E002", level: 3, canApprove: true},
	{id: "E005", name: "Lim Mei Ling", title: "Software Engineer", department: "Engineering", departmentID: "dept-eng", reportsTo: "E004", level: 4},
	{id: "E006", name: "Arjun Kumar", title: "Software Engineer", department: "Engineering", departmentID: "dept-eng", reportsTo: "E004", level: 4},
	{id: "E007", name: "Nurul Izzah", title: "Payroll Executive", department: "Finance", departmentID: "dept-fin", reportsTo: "E003", level: 4},
	// no hierarchy row: shows up as an unleveled root
	{id: "E008", name: "Chong Kah Wai", title: "Intern", department: "Engineering"},
}

func seed(db *gorm.DB, clear bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []interface{}{&employeeDatamodel.Hierarchy{}, &departmentDatamodel.Department{}, &employeeDatamodel.Employee{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear %T: %w", model, err)
				}
			}
			fmt.Println("Cleared existing stub data")
		}

		for _, e := range seedEmployees {
			row := employeeDatamodel.Employee{
				ID:             e.id,
				Name:           e.name,
				Email:          e.id + "@example.com",
				JobTitle:       e.title,
				DepartmentName: e.department,
				IsActive:       true,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert employee %s: %w", e.id, err)
			}
		}

		for i := range seedDepartments {
			dept := seedDepartments[i]
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dept).Error; err != nil {
				return fmt.Errorf("failed to insert department %s: %w", dept.ID, err)
			}
		}

		for _, e := range seedEmployees {
			if e.level == 0 {
				continue
			}
			level := e.level
			row := employeeDatamodel.Hierarchy{EmployeeID: e.id, Level: &level, CanApprove: e.canApprove}
			if e.reportsTo != "" {
				reportsTo := e.reportsTo
				row.ReportsTo = &reportsTo
			}
			if e.departmentID != "" {
				departmentID := e.departmentID
				row.DepartmentID = &departmentID
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert hierarchy for %s: %w", e.id, err)
			}
		}

		fmt.Printf("Seeded %d employees and %d departments\n", len(seedEmployees), len(seedDepartments))
		return nil
	})
}
