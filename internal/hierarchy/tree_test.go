package hierarchy_test

import (
	"bytes"
	"errors"
	"strings"

	"github.com/frahmantamala/hr-portal/internal/employee"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ids(nodes []*hierarchy.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Employee.ID
	}
	return out
}

var _ = Describe("Tree assembly", func() {
	Describe("Assemble", func() {
		It("should return an empty forest for an empty list", func() {
			roots := hierarchy.Assemble(nil)
			Expect(roots).To(BeEmpty())
		})

		It("should nest reports under their supervisor and order siblings by level", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				emp("1", "", 1),
				emp("2", "1", 3),
				emp("3", "1", 2),
			})

			Expect(ids(roots)).To(Equal([]string{"1"}))
			Expect(ids(roots[0].SortedChildren())).To(Equal([]string{"3", "2"}))
		})

		It("should keep insertion order in Children and leave sorting to render time", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				emp("1", "", 1),
				emp("2", "1", 3),
				emp("3", "1", 2),
			})

			Expect(ids(roots[0].Children)).To(Equal([]string{"2", "3"}))
		})

		It("should treat a dangling supervisor reference as a root", func() {
			roots := hierarchy.Assemble([]employee.Employee{emp("1", "ghost", unleveled)})

			Expect(ids(roots)).To(Equal([]string{"1"}))
			Expect(roots[0].Children).To(BeEmpty())
		})

		It("should treat an employee without hierarchy record as a root", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				{ID: "1", Name: "Unattached"},
				emp("2", "", 1),
			})

			Expect(ids(roots)).To(Equal([]string{"2", "1"}))
		})

		It("should attach a report listed before its supervisor", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				emp("2", "1", 2),
				emp("1", "", 1),
			})

			Expect(ids(roots)).To(Equal([]string{"1"}))
			Expect(ids(roots[0].Children)).To(Equal([]string{"2"}))
		})

		It("should order roots by level with unleveled employees last and ties stable", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				emp("a", "", unleveled),
				emp("b", "", 2),
				emp("c", "", 1),
				emp("d", "", 2),
			})

			Expect(ids(roots)).To(Equal([]string{"c", "b", "d", "a"}))
		})

		It("should rank level 0 ahead of level 1", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				emp("vp", "", 1),
				emp("chair", "", 0),
			})

			Expect(ids(roots)).To(Equal([]string{"chair", "vp"}))
		})

		It("should make a self-referencing employee its own sole child and not a root", func() {
			roots := hierarchy.Assemble([]employee.Employee{emp("1", "1", 1)})

			Expect(roots).To(BeEmpty())
		})

		It("should place each employee exactly once", func() {
			input := []employee.Employee{
				emp("1", "", 1),
				emp("2", "1", 2),
				emp("3", "2", 3),
				emp("4", "missing", 2),
				emp("5", "4", 3),
			}
			roots := hierarchy.Assemble(input)

			var seen []string
			err := hierarchy.Walk(roots, 0, func(n *hierarchy.Node, depth int) error {
				seen = append(seen, n.Employee.ID)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(ConsistOf("1", "2", "3", "4", "5"))
		})

		It("should let the last record win for duplicate ids and place it once", func() {
			roots := hierarchy.Assemble([]employee.Employee{
				emp("1", "", 1),
				emp("2", "1", 2),
				emp("2", "", 3),
			})

			Expect(ids(roots)).To(Equal([]string{"1", "2"}))
			Expect(roots[0].Children).To(BeEmpty())
			Expect(roots[1].Employee.Rank()).To(Equal(3))
		})
	})

	Describe("NewForest", func() {
		It("should report no detached employees for a well-formed tree", func() {
			forest := hierarchy.NewForest([]employee.Employee{
				emp("1", "", 1),
				emp("2", "1", 2),
			})

			Expect(forest.Size).To(Equal(2))
			Expect(forest.Detached).To(BeEmpty())
		})

		It("should collect a self-reference as detached", func() {
			forest := hierarchy.NewForest([]employee.Employee{emp("1", "1", 1)})

			Expect(forest.Roots).To(BeEmpty())
			Expect(ids(forest.Detached)).To(Equal([]string{"1"}))
			Expect(ids(forest.Detached[0].Children)).To(Equal([]string{"1"}))
		})

		It("should collect every member of a cycle and their reports as detached", func() {
			forest := hierarchy.NewForest([]employee.Employee{
				emp("ceo", "", 1),
				emp("a", "b", 2),
				emp("b", "a", 2),
				emp("c", "a", 3),
			})

			Expect(ids(forest.Roots)).To(Equal([]string{"ceo"}))
			Expect(ids(forest.Detached)).To(Equal([]string{"a", "b", "c"}))
		})
	})

	Describe("guarded rendering", func() {
		It("should terminate on a self-reference and flag the node truncated", func() {
			forest := hierarchy.NewForest([]employee.Employee{emp("1", "1", 1)})

			views := hierarchy.View(forest.Detached, 0)
			Expect(views).To(HaveLen(1))
			Expect(views[0].ID).To(Equal("1"))
			Expect(views[0].Children).To(BeEmpty())
			Expect(views[0].Truncated).To(BeTrue())
		})

		It("should render a cycle once per member", func() {
			forest := hierarchy.NewForest([]employee.Employee{
				emp("a", "b", 2),
				emp("b", "a", 2),
			})

			var seen []string
			err := hierarchy.Walk(forest.Detached, 0, func(n *hierarchy.Node, depth int) error {
				seen = append(seen, n.Employee.ID)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(Equal([]string{"a", "b"}))
		})

		It("should stop at the depth cap", func() {
			input := []employee.Employee{emp("0", "", 1)}
			for i := 1; i < 10; i++ {
				input = append(input, emp(string(rune('0'+i)), string(rune('0'+i-1)), i+1))
			}
			roots := hierarchy.Assemble(input)

			maxDepth := -1
			err := hierarchy.Walk(roots, 3, func(n *hierarchy.Node, depth int) error {
				if depth > maxDepth {
					maxDepth = depth
				}
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(maxDepth).To(Equal(2))

			views := hierarchy.View(roots, 3)
			Expect(views[0].Children[0].Children[0].Truncated).To(BeTrue())
		})

		It("should stop walking when the callback fails", func() {
			roots := hierarchy.Assemble([]employee.Employee{emp("1", "", 1), emp("2", "1", 2)})
			boom := errors.New("boom")

			calls := 0
			err := hierarchy.Walk(roots, 0, func(n *hierarchy.Node, depth int) error {
				calls++
				return boom
			})
			Expect(err).To(MatchError(boom))
			Expect(calls).To(Equal(1))
		})

		It("should render an indented outline in level order", func() {
			ceo := emp("1", "", 1)
			ceo.Name = "Aisyah"
			ceo.Hierarchy.CanApprove = true
			lead := emp("3", "1", 2)
			lead.Name = "Budi"
			dev := emp("2", "1", 3)
			dev.Name = "Citra"

			var buf bytes.Buffer
			err := hierarchy.Render(&buf, hierarchy.Assemble([]employee.Employee{ceo, dev, lead}), 0)
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			Expect(lines).To(Equal([]string{
				"Aisyah (1) L1 [approver]",
				"  Budi (3) L2",
				"  Citra (2) L3",
			}))
		})

		It("should expose hierarchy fields on the view", func() {
			e := emp("1", "", 2)
			e.Hierarchy.DepartmentID = strPtr("dept-eng")
			e.JobTitle = "Engineering Manager"

			views := hierarchy.View(hierarchy.Assemble([]employee.Employee{e}), 0)
			Expect(views[0].Level).To(Equal(intPtr(2)))
			Expect(views[0].DepartmentID).To(Equal(strPtr("dept-eng")))
			Expect(views[0].JobTitle).To(Equal("Engineering Manager"))
			Expect(views[0].Depth).To(Equal(0))
		})
	})
})
