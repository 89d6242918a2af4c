package stub_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/frahmantamala/hr-portal/internal/directory/stub"
	stubPostgres "github.com/frahmantamala/hr-portal/internal/directory/stub/postgres"
	"github.com/frahmantamala/hr-portal/internal/employee"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Stub Directory Handler Integration", func() {
	var (
		db      *gorm.DB
		server  *httptest.Server
		client  *directory.Client
		slogger *slog.Logger
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err = gorm.Open(sqlite.Open("file:"+uuid.New().String()+"?mode=memory&cache=shared"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(stubPostgres.AutoMigrate(db)).To(Succeed())

		rows := []struct {
			id, name, reportsTo string
			level               int
		}{
			{"1", "Aisyah", "", 1},
			{"2", "Budi", "1", 3},
			{"3", "Citra", "1", 2},
		}
		for _, row := range rows {
			Expect(db.Create(&employeeDatamodel.Employee{ID: row.id, Name: row.name, Email: row.id + "@example.com", IsActive: true}).Error).To(Succeed())
			h := &employeeDatamodel.Hierarchy{EmployeeID: row.id, Level: intPtr(row.level)}
			if row.reportsTo != "" {
				h.ReportsTo = strPtr(row.reportsTo)
			}
			Expect(db.Create(h).Error).To(Succeed())
		}
		Expect(db.Create(&employeeDatamodel.Employee{ID: "4", Name: "Dewi", Email: "4@example.com", IsActive: true}).Error).To(Succeed())

		repo, err := stubPostgres.NewDirectoryRepository(db)
		Expect(err).NotTo(HaveOccurred())
		handler := stub.NewHandler(transport.NewBaseHandler(slogger), stub.NewService(repo, slogger))

		router := chi.NewRouter()
		handler.Routes(router)
		server = httptest.NewServer(router)

		client = directory.NewClient(directory.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, directory.StaticToken("dev"), slogger)
	})

	AfterEach(func() {
		server.Close()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	It("should list employees with and without hierarchy records", func() {
		employees, err := client.ListEmployees(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(employees).To(HaveLen(4))

		dewi, ok := employee.FindByID(employees, "4")
		Expect(ok).To(BeTrue())
		Expect(dewi.Hierarchy).To(BeNil())

		budi, ok := employee.FindByID(employees, "2")
		Expect(ok).To(BeTrue())
		Expect(budi.ReportsTo()).To(Equal("1"))
		Expect(budi.Rank()).To(Equal(3))
	})

	It("should assemble the tree served by the stub", func() {
		service := hierarchy.NewService(client, nil, slogger, 0)

		forest, err := service.Tree(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(forest.Roots).To(HaveLen(2))
		Expect(forest.Roots[0].Employee.ID).To(Equal("1"))
		Expect(forest.Roots[1].Employee.ID).To(Equal("4"))

		children := forest.Roots[0].SortedChildren()
		Expect(children[0].Employee.ID).To(Equal("3"))
		Expect(children[1].Employee.ID).To(Equal("2"))
	})

	It("should reparent through the stub and keep the other attachment fields", func() {
		service := hierarchy.NewService(client, nil, slogger, 0)

		outcome, err := service.Reparent(ctx, "2", "3")

		Expect(err).NotTo(HaveOccurred())
		citra := outcome.Forest.Roots[0].Children[0]
		Expect(citra.Employee.ID).To(Equal("3"))
		Expect(citra.Children).To(HaveLen(1))
		Expect(citra.Children[0].Employee.Rank()).To(Equal(3))
	})

	It("should reject a cycle in-band as success:false", func() {
		service := hierarchy.NewService(client, nil, slogger, 0)

		_, err := service.Reparent(ctx, "1", "2")

		dirErr, ok := directory.AsError(err)
		Expect(ok).To(BeTrue())
		Expect(dirErr.Kind).To(Equal(directory.KindApplication))
		Expect(dirErr.Message).To(Equal("Change would create a reporting cycle"))
	})

	It("should reject an unknown supervisor", func() {
		err := client.UpdateHierarchy(ctx, "2", employee.Hierarchy{ReportsTo: strPtr("ghost")})

		dirErr, ok := directory.AsError(err)
		Expect(ok).To(BeTrue())
		Expect(dirErr.Message).To(Equal("Supervisor not found"))
	})

	It("should create and list departments", func() {
		created, err := client.CreateDepartment(ctx, department.SaveDepartmentDTO{Name: "Engineering", Code: "ENG", HeadID: strPtr("1")})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).NotTo(BeEmpty())

		updated, err := client.UpdateDepartment(ctx, created.ID, department.SaveDepartmentDTO{Name: "Engineering & Data", Code: "ENG"})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Name).To(Equal("Engineering & Data"))

		departments, err := client.ListDepartments(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(departments).To(HaveLen(1))
		Expect(departments[0].Name).To(Equal("Engineering & Data"))
	})

	It("should answer unimplemented endpoints with a 404 envelope", func() {
		_, err := client.ListPendingApprovals(ctx)

		dirErr, ok := directory.AsError(err)
		Expect(ok).To(BeTrue())
		Expect(dirErr.Kind).To(Equal(directory.KindHTTP))
		Expect(dirErr.StatusCode).To(Equal(http.StatusNotFound))
		Expect(dirErr.Message).To(Equal("Endpoint not available in the stub directory"))
	})
})
