package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/hr-portal/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("ForwardToken", func() {
	It("should put the bearer token into the request context", func() {
		var seen string
		handler := ForwardToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.TokenFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seen).To(Equal("abc.def.ghi"))
	})

	It("should leave the context alone without a bearer header", func() {
		seen := "unset"
		handler := ForwardToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.TokenFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seen).To(BeEmpty())
	})
})

var _ = Describe("RequestID", func() {
	echo := func(header string) string {
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(TraceHeader, header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Header().Get(TraceHeader)
	}

	It("should echo the caller's trace id", func() {
		Expect(echo("trace-123")).To(Equal("trace-123"))
	})

	It("should mint a trace id when none or an oversized one is sent", func() {
		Expect(echo("")).To(HaveLen(36))
		Expect(echo(strings.Repeat("x", 500))).To(HaveLen(36))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should log one line with the status and keep the body readable downstream", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		var received string
		handler := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			received = string(body)
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/hierarchy/1", strings.NewReader(`{"level":2,"token":"secret"}`))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(received).To(Equal(`{"level":2,"token":"secret"}`))

		var entry map[string]interface{}
		Expect(json.Unmarshal(logs.Bytes(), &entry)).To(Succeed())
		Expect(entry["status_code"]).To(BeEquivalentTo(http.StatusTeapot))
		Expect(entry["level"]).To(Equal("WARN"))
		Expect(entry["request_body"]).NotTo(ContainSubstring("secret"))
	})
})

var _ = Describe("sensitive field filtering", func() {
	It("should mask sensitive keys at any depth", func() {
		out := filterSensitiveBody([]byte(`{"name":"Aisyah","bank_account":"123","nested":[{"password":"x","level":3}]}`))

		Expect(out).To(ContainSubstring(`"name":"Aisyah"`))
		Expect(out).To(ContainSubstring(`"bank_account":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"password":"[FILTERED]"`))
		Expect(out).To(ContainSubstring(`"level":3`))
	})

	It("should mask non-JSON bodies that mention a sensitive word", func() {
		Expect(filterSensitiveBody([]byte("password=hunter2"))).To(Equal("[FILTERED - Contains sensitive data]"))
		Expect(filterSensitiveBody([]byte("plain text"))).To(Equal("plain text"))
	})

	It("should mask the authorization header", func() {
		headers := http.Header{"Authorization": {"Bearer abc"}, "Accept": {"application/json"}}

		filtered := filterSensitiveHeaders(headers)

		Expect(filtered["Authorization"]).To(Equal("[FILTERED]"))
		Expect(filtered["Accept"]).To(Equal("application/json"))
	})
})
