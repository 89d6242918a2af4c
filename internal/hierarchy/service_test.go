package hierarchy_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/frahmantamala/hr-portal/internal/employee"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type updateCall struct {
	EmployeeID string
	Hierarchy  employee.Hierarchy
}

// MockDirectory implements hierarchy.DirectoryAPI for testing
type MockDirectory struct {
	employees  []employee.Employee
	updates    []updateCall
	listCalls  int
	shouldFail bool
	failError  error
	rejectWith error
	// applyUpdates makes accepted updates visible to the next listing
	applyUpdates bool
}

func NewMockDirectory(employees ...employee.Employee) *MockDirectory {
	return &MockDirectory{employees: employees, applyUpdates: true}
}

func (m *MockDirectory) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	m.listCalls++
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]employee.Employee, len(m.employees))
	copy(out, m.employees)
	return out, nil
}

func (m *MockDirectory) UpdateHierarchy(ctx context.Context, employeeID string, h employee.Hierarchy) error {
	m.updates = append(m.updates, updateCall{EmployeeID: employeeID, Hierarchy: h})
	if m.rejectWith != nil {
		return m.rejectWith
	}
	if m.applyUpdates {
		for i := range m.employees {
			if m.employees[i].ID == employeeID {
				copied := h
				m.employees[i].Hierarchy = &copied
			}
		}
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Hierarchy Service", func() {
	var (
		dir       *MockDirectory
		publisher *recordingPublisher
		service   *hierarchy.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		ceo := emp("1", "", 1)
		cto := emp("2", "1", 2)
		cto.Hierarchy.DepartmentID = strPtr("eng")
		cto.Hierarchy.CanApprove = true
		dev := emp("3", "2", 3)
		cfo := emp("4", "1", 2)
		dir = NewMockDirectory(ceo, cto, dev, cfo)
		publisher = &recordingPublisher{}
		service = hierarchy.NewService(dir, publisher, quietLogger(), 0)
	})

	Describe("Tree", func() {
		It("should assemble the fetched employees", func() {
			forest, err := service.Tree(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(forest.Size).To(Equal(4))
			Expect(ids(forest.Roots)).To(Equal([]string{"1"}))
			Expect(forest.Detached).To(BeEmpty())
		})

		It("should propagate directory failures", func() {
			dir.shouldFail = true
			dir.failError = &directory.Error{Kind: directory.KindNetwork, Message: "Failed to load employees"}

			_, err := service.Tree(ctx)

			dirErr, ok := directory.AsError(err)
			Expect(ok).To(BeTrue())
			Expect(dirErr.Kind).To(Equal(directory.KindNetwork))
		})

		It("should render with the default depth cap", func() {
			Expect(service.MaxDepth()).To(Equal(hierarchy.DefaultMaxDepth))

			forest, err := service.Tree(ctx)
			Expect(err).NotTo(HaveOccurred())

			view := service.View(forest)
			Expect(view.Roots).To(HaveLen(1))
			Expect(view.Roots[0].Children).To(HaveLen(2))
			Expect(view.Detached).To(BeEmpty())
		})
	})

	Describe("Reparent", func() {
		It("should cancel a drop onto the same employee without calling the directory", func() {
			outcome, err := service.Reparent(ctx, "3", "3")

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Cancelled).To(BeTrue())
			Expect(outcome.Forest).To(BeNil())
			Expect(dir.listCalls).To(Equal(0))
			Expect(dir.updates).To(BeEmpty())
			Expect(publisher.events).To(BeEmpty())
		})

		It("should require both ids", func() {
			_, err := service.Reparent(ctx, "", "1")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidEmployee))

			_, err = service.Reparent(ctx, "3", " ")
			Expect(err).To(HaveOccurred())
			Expect(dir.updates).To(BeEmpty())
		})

		It("should only change reportsTo and keep the rest of the attachment", func() {
			outcome, err := service.Reparent(ctx, "2", "4")

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Cancelled).To(BeFalse())
			Expect(dir.updates).To(HaveLen(1))

			sent := dir.updates[0]
			Expect(sent.EmployeeID).To(Equal("2"))
			Expect(*sent.Hierarchy.ReportsTo).To(Equal("4"))
			Expect(*sent.Hierarchy.Level).To(Equal(2))
			Expect(*sent.Hierarchy.DepartmentID).To(Equal("eng"))
			Expect(sent.Hierarchy.CanApprove).To(BeTrue())
		})

		It("should rebuild the forest from a fresh fetch", func() {
			outcome, err := service.Reparent(ctx, "3", "4")

			Expect(err).NotTo(HaveOccurred())
			Expect(dir.listCalls).To(Equal(2))
			Expect(outcome.Forest).NotTo(BeNil())

			cfo := outcome.Forest.Roots[0].SortedChildren()[1]
			Expect(cfo.Employee.ID).To(Equal("4"))
			Expect(ids(cfo.Children)).To(Equal([]string{"3"}))
		})

		It("should publish a reparented event with the previous supervisor", func() {
			_, err := service.Reparent(ctx, "3", "4")
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.events).To(HaveLen(1))
			e, ok := publisher.events[0].(*events.HierarchyReparentedEvent)
			Expect(ok).To(BeTrue())
			Expect(e.EmployeeID).To(Equal("3"))
			Expect(*e.PreviousSupervisorID).To(Equal("2"))
			Expect(e.NewSupervisorID).To(Equal("4"))
		})

		It("should attach an employee without hierarchy record", func() {
			dir.employees = append(dir.employees, employee.Employee{ID: "9", Name: "New Hire"})

			_, err := service.Reparent(ctx, "9", "2")

			Expect(err).NotTo(HaveOccurred())
			Expect(*dir.updates[0].Hierarchy.ReportsTo).To(Equal("2"))
			Expect(dir.updates[0].Hierarchy.Level).To(BeNil())
		})

		It("should fail for an unknown employee", func() {
			_, err := service.Reparent(ctx, "404", "1")

			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
			Expect(dir.updates).To(BeEmpty())
		})

		It("should not check cycles itself and surface the directory rejection", func() {
			dir.rejectWith = &directory.Error{Kind: directory.KindApplication, Message: "Would create a reporting cycle"}

			_, err := service.Reparent(ctx, "1", "3")

			Expect(dir.updates).To(HaveLen(1))
			Expect(err).To(MatchError("Would create a reporting cycle"))
			Expect(publisher.events).To(BeEmpty())
		})

		It("should report a failed refresh after an accepted move", func() {
			dir.applyUpdates = false
			service = hierarchy.NewService(&failingAfterUpdate{MockDirectory: dir}, publisher, quietLogger(), 0)

			outcome, err := service.Reparent(ctx, "3", "4")

			Expect(err).To(MatchError(ContainSubstring("refresh failed")))
			Expect(outcome).NotTo(BeNil())
			Expect(outcome.Forest).To(BeNil())
			Expect(publisher.events).To(HaveLen(1))
		})
	})

	Describe("UpdateAttachment", func() {
		It("should send the full attachment and rebuild", func() {
			forest, err := service.UpdateAttachment(ctx, "3", hierarchy.UpdateAttachmentDTO{
				ReportsTo:    strPtr("1"),
				Level:        intPtr(2),
				DepartmentID: strPtr("  "),
				CanApprove:   true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(dir.updates[0].Hierarchy.DepartmentID).To(BeNil())
			Expect(ids(forest.Roots[0].Children)).To(ContainElement("3"))
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeHierarchyAttachmentUpdated))
		})

		It("should reject reporting to oneself", func() {
			_, err := service.UpdateAttachment(ctx, "3", hierarchy.UpdateAttachmentDTO{ReportsTo: strPtr("3")})

			Expect(err).To(Equal(internal.ErrSelfReport))
			Expect(dir.updates).To(BeEmpty())
		})

		It("should reject an out-of-range level", func() {
			_, err := service.UpdateAttachment(ctx, "3", hierarchy.UpdateAttachmentDTO{Level: intPtr(120)})

			Expect(err).To(HaveOccurred())
			Expect(dir.updates).To(BeEmpty())
		})

		It("should reject a negative level", func() {
			_, err := service.UpdateAttachment(ctx, "3", hierarchy.UpdateAttachmentDTO{Level: intPtr(-1)})

			Expect(err).To(HaveOccurred())
			Expect(dir.updates).To(BeEmpty())
		})

		It("should accept level 0 as the most senior rank", func() {
			_, err := service.UpdateAttachment(ctx, "1", hierarchy.UpdateAttachmentDTO{Level: intPtr(0)})

			Expect(err).NotTo(HaveOccurred())
			Expect(*dir.updates[0].Hierarchy.Level).To(Equal(0))
		})
	})
})

// failingAfterUpdate accepts the update and then fails every listing.
type failingAfterUpdate struct {
	*MockDirectory
	updated bool
}

func (f *failingAfterUpdate) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	if f.updated {
		return nil, errors.New("connection reset")
	}
	return f.MockDirectory.ListEmployees(ctx)
}

func (f *failingAfterUpdate) UpdateHierarchy(ctx context.Context, employeeID string, h employee.Hierarchy) error {
	f.updated = true
	return f.MockDirectory.UpdateHierarchy(ctx, employeeID, h)
}
