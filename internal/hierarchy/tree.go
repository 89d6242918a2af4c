package hierarchy

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/frahmantamala/hr-portal/internal/employee"
)

// DefaultMaxDepth bounds every render path. Reporting chains in practice are far shallower.
const DefaultMaxDepth = 64

// Node wraps one employee and the employees reporting to it.
type Node struct {
	Employee employee.Employee
	Children []*Node
}

// SortedChildren returns the children ordered by level, ties kept in input order.
// The node itself is left untouched.
func (n *Node) SortedChildren() []*Node {
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	sortByRank(children)
	return children
}

// Assemble turns a flat employee list into a reporting forest in a single forward pass.
// Employees whose reportsTo is empty or unknown become roots; roots are ordered by level.
// Cycles are not detected: their members end up under each other and unreachable from any root.
func Assemble(employees []employee.Employee) []*Node {
	roots, _ := assemble(employees)
	return roots
}

func assemble(employees []employee.Employee) ([]*Node, map[string]*Node) {
	byID := make(map[string]*Node, len(employees))
	for _, e := range employees {
		// duplicate ids: last record wins
		byID[e.ID] = &Node{Employee: e}
	}

	roots := make([]*Node, 0, len(byID))
	placed := make(map[string]struct{}, len(byID))
	for _, e := range employees {
		if _, ok := placed[e.ID]; ok {
			continue
		}
		placed[e.ID] = struct{}{}

		node := byID[e.ID]
		if supervisorID := node.Employee.ReportsTo(); supervisorID != "" {
			if supervisor, ok := byID[supervisorID]; ok {
				supervisor.Children = append(supervisor.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortByRank(roots)
	return roots, byID
}

func sortByRank(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Employee.Rank() < nodes[j].Employee.Rank()
	})
}

// Forest is the assembled hierarchy plus the employees no root can reach.
type Forest struct {
	Roots    []*Node
	Detached []*Node
	Size     int
}

// NewForest assembles employees and collects nodes stranded by cycles or self-references.
func NewForest(employees []employee.Employee) *Forest {
	roots, byID := assemble(employees)

	reached := make(map[*Node]struct{}, len(byID))
	stack := append([]*Node(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reached[n]; ok {
			continue
		}
		reached[n] = struct{}{}
		stack = append(stack, n.Children...)
	}

	var detached []*Node
	seen := make(map[string]struct{}, len(byID))
	for _, e := range employees {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		if n := byID[e.ID]; n != nil {
			if _, ok := reached[n]; !ok {
				detached = append(detached, n)
			}
		}
	}

	return &Forest{Roots: roots, Detached: detached, Size: len(byID)}
}

// WalkFunc is called once per visited node with its depth (roots are depth 0).
type WalkFunc func(n *Node, depth int) error

// Walk visits the forest depth-first with children in level order.
// A node is visited at most once and never deeper than maxDepth, so cyclic input terminates.
func Walk(roots []*Node, maxDepth int, fn WalkFunc) error {
	g := newGuard(maxDepth)
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if !g.enter(n, depth) {
			return nil
		}
		if err := fn(n, depth); err != nil {
			return err
		}
		for _, child := range n.SortedChildren() {
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := visit(r, 0); err != nil {
			return err
		}
	}
	return nil
}

// NodeView is the render model of one node.
type NodeView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	JobTitle     string     `json:"jobTitle,omitempty"`
	Level        *int       `json:"level"`
	DepartmentID *string    `json:"departmentId"`
	CanApprove   bool       `json:"canApprove"`
	Depth        int        `json:"depth"`
	Truncated    bool       `json:"truncated,omitempty"`
	Children     []NodeView `json:"children"`
}

// View renders roots into nested view models. Children that were already rendered or lie
// beyond maxDepth are dropped and their parent is flagged Truncated.
func View(roots []*Node, maxDepth int) []NodeView {
	g := newGuard(maxDepth)
	var render func(n *Node, depth int) (NodeView, bool)
	render = func(n *Node, depth int) (NodeView, bool) {
		if !g.enter(n, depth) {
			return NodeView{}, false
		}
		h := n.Employee.AttachmentOrEmpty()
		v := NodeView{
			ID:           n.Employee.ID,
			Name:         n.Employee.Name,
			JobTitle:     n.Employee.JobTitle,
			Level:        h.Level,
			DepartmentID: h.DepartmentID,
			CanApprove:   h.CanApprove,
			Depth:        depth,
			Children:     []NodeView{},
		}
		for _, child := range n.SortedChildren() {
			cv, ok := render(child, depth+1)
			if !ok {
				v.Truncated = true
				continue
			}
			v.Children = append(v.Children, cv)
		}
		return v, true
	}

	views := make([]NodeView, 0, len(roots))
	for _, r := range roots {
		if v, ok := render(r, 0); ok {
			views = append(views, v)
		}
	}
	return views
}

// Render writes an indented text outline of the forest.
func Render(w io.Writer, roots []*Node, maxDepth int) error {
	return Walk(roots, maxDepth, func(n *Node, depth int) error {
		level := "-"
		if n.Employee.Hierarchy != nil && n.Employee.Hierarchy.Level != nil {
			level = fmt.Sprintf("L%d", *n.Employee.Hierarchy.Level)
		}
		approver := ""
		if n.Employee.Hierarchy != nil && n.Employee.Hierarchy.CanApprove {
			approver = " [approver]"
		}
		_, err := fmt.Fprintf(w, "%s%s (%s) %s%s\n", strings.Repeat("  ", depth), n.Employee.Name, n.Employee.ID, level, approver)
		return err
	})
}

type guard struct {
	visited  map[*Node]struct{}
	maxDepth int
}

func newGuard(maxDepth int) *guard {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &guard{visited: make(map[*Node]struct{}), maxDepth: maxDepth}
}

func (g *guard) enter(n *Node, depth int) bool {
	if depth >= g.maxDepth {
		return false
	}
	if _, ok := g.visited[n]; ok {
		return false
	}
	g.visited[n] = struct{}{}
	return true
}
