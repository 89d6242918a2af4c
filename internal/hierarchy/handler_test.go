package hierarchy_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type treeEnvelope struct {
	Success bool               `json:"success"`
	Data    hierarchy.TreeView `json:"data"`
	Error   string             `json:"error"`
	Code    string             `json:"code"`
}

type reparentEnvelope struct {
	Success bool                       `json:"success"`
	Data    hierarchy.ReparentResponse `json:"data"`
	Error   string                     `json:"error"`
	Code    string                     `json:"code"`
}

var _ = Describe("Hierarchy Handler", func() {
	var (
		dir    *MockDirectory
		router chi.Router
	)

	BeforeEach(func() {
		dir = NewMockDirectory(
			emp("1", "", 1),
			emp("2", "1", 3),
			emp("3", "1", 2),
		)
		service := hierarchy.NewService(dir, &recordingPublisher{}, quietLogger(), 0)
		handler := hierarchy.NewHandler(transport.NewBaseHandler(quietLogger()), service)

		router = chi.NewRouter()
		handler.Routes(router)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("GET /hierarchy/tree", func() {
		It("should return the forest in a success envelope with children in level order", func() {
			rec := serve(http.MethodGet, "/hierarchy/tree", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var env treeEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Success).To(BeTrue())
			Expect(env.Data.Size).To(Equal(3))
			Expect(env.Data.Roots).To(HaveLen(1))
			Expect(env.Data.Roots[0].Children[0].ID).To(Equal("3"))
			Expect(env.Data.Roots[0].Children[1].ID).To(Equal("2"))
		})

		It("should expose self-referencing employees as detached", func() {
			dir.employees = append(dir.employees, emp("9", "9", 4))

			rec := serve(http.MethodGet, "/hierarchy/tree", "")

			var env treeEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Data.Detached).To(HaveLen(1))
			Expect(env.Data.Detached[0].ID).To(Equal("9"))
			Expect(env.Data.Detached[0].Truncated).To(BeTrue())
		})

		It("should answer 502 when the directory is unreachable", func() {
			dir.shouldFail = true
			dir.failError = &directory.Error{Kind: directory.KindNetwork, Message: "Failed to load employees"}

			rec := serve(http.MethodGet, "/hierarchy/tree", "")

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			var env treeEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Success).To(BeFalse())
			Expect(env.Error).To(Equal("Failed to load employees"))
			Expect(env.Code).To(Equal("DIRECTORY_UNAVAILABLE"))
		})
	})

	Describe("PUT /hierarchy/{employeeID}/reports-to", func() {
		It("should move the employee and return the rebuilt tree", func() {
			rec := serve(http.MethodPut, "/hierarchy/2/reports-to", `{"supervisorId":"3"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var env reparentEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Success).To(BeTrue())
			Expect(env.Data.Outcome.Cancelled).To(BeFalse())
			Expect(env.Data.Tree).NotTo(BeNil())
			Expect(env.Data.Tree.Roots[0].Children).To(HaveLen(1))
			Expect(env.Data.Tree.Roots[0].Children[0].Children[0].ID).To(Equal("2"))
		})

		It("should report a cancelled self-drop without a tree", func() {
			rec := serve(http.MethodPut, "/hierarchy/2/reports-to", `{"supervisorId":"2"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var env reparentEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Data.Outcome.Cancelled).To(BeTrue())
			Expect(env.Data.Tree).To(BeNil())
			Expect(dir.updates).To(BeEmpty())
		})

		It("should relay the directory rejection as 422", func() {
			dir.rejectWith = &directory.Error{Kind: directory.KindApplication, Message: "Would create a reporting cycle"}

			rec := serve(http.MethodPut, "/hierarchy/1/reports-to", `{"supervisorId":"2"}`)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			var env reparentEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Success).To(BeFalse())
			Expect(env.Error).To(Equal("Would create a reporting cycle"))
		})

		It("should report an applied move whose refresh failed with its own code and the outcome", func() {
			dir.applyUpdates = false
			service := hierarchy.NewService(&failingAfterUpdate{MockDirectory: dir}, &recordingPublisher{}, quietLogger(), 0)
			router = chi.NewRouter()
			hierarchy.NewHandler(transport.NewBaseHandler(quietLogger()), service).Routes(router)

			rec := serve(http.MethodPut, "/hierarchy/2/reports-to", `{"supervisorId":"3"}`)

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			var env struct {
				Success bool                       `json:"success"`
				Code    string                     `json:"code"`
				Details hierarchy.ReparentResponse `json:"details"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Success).To(BeFalse())
			Expect(env.Code).To(Equal("REFRESH_FAILED"))
			Expect(env.Details.Outcome).NotTo(BeNil())
			Expect(env.Details.Outcome.EmployeeID).To(Equal("2"))
			Expect(env.Details.Outcome.SupervisorID).To(Equal("3"))
			Expect(dir.updates).To(HaveLen(1))
		})

		It("should reject a malformed body", func() {
			rec := serve(http.MethodPut, "/hierarchy/2/reports-to", `{"supervisor":`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a missing supervisor with field details", func() {
			rec := serve(http.MethodPut, "/hierarchy/2/reports-to", `{}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			var env reparentEnvelope
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Code).To(Equal("VALIDATION_FAILED"))
			Expect(env.Error).To(ContainSubstring("supervisorId"))
		})

		It("should answer 404 for an unknown employee", func() {
			rec := serve(http.MethodPut, "/hierarchy/404/reports-to", `{"supervisorId":"1"}`)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("PUT /hierarchy/{employeeID}", func() {
		It("should update the attachment", func() {
			rec := serve(http.MethodPut, "/hierarchy/2", `{"reportsTo":"1","level":2,"departmentId":"eng","canApprove":true}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(dir.updates).To(HaveLen(1))
			Expect(*dir.updates[0].Hierarchy.DepartmentID).To(Equal("eng"))
		})

		It("should refuse a self report", func() {
			rec := serve(http.MethodPut, "/hierarchy/2", `{"reportsTo":"2"}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("SELF_REPORT"))
		})
	})
})
