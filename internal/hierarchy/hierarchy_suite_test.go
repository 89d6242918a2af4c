package hierarchy_test

import (
	"testing"

	"github.com/frahmantamala/hr-portal/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHierarchy(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Hierarchy Suite")
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// unleveled builds an employee whose hierarchy record has no level.
const unleveled = -1

// emp builds an employee attached below reportsTo ("" for none) at level.
func emp(id, reportsTo string, level int) employee.Employee {
	h := &employee.Hierarchy{}
	if reportsTo != "" {
		h.ReportsTo = strPtr(reportsTo)
	}
	if level != unleveled {
		h.Level = intPtr(level)
	}
	return employee.Employee{ID: id, Name: "Employee " + id, Hierarchy: h}
}
