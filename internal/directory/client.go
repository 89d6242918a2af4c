package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/employee"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxResponseBytes = 4 << 20

// envelope is the response shape of every directory endpoint.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the directory backend. Calls are never retried.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	now        func() time.Time
}

func NewClient(config Config, tokens TokenSource, logger *slog.Logger) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		timeout:    config.Timeout,
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     logger,
		now:        time.Now,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	return call[[]employee.Employee](ctx, c, http.MethodGet, "/api/employees", nil, nil,
		"Failed to load employees")
}

// UpdateHierarchy replaces the hierarchy attachment of one employee.
func (c *Client) UpdateHierarchy(ctx context.Context, employeeID string, h employee.Hierarchy) error {
	body := hierarchyPayload{
		ReportsTo:    h.ReportsTo,
		Level:        h.Level,
		DepartmentID: h.DepartmentID,
		CanApprove:   h.CanApprove,
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodPut, "/api/hierarchy/"+url.PathEscape(employeeID), nil, body,
		"Failed to update hierarchy")
	return err
}

// hierarchyPayload always sends level, unlike the listing shape.
type hierarchyPayload struct {
	ReportsTo    *string `json:"reportsTo"`
	Level        *int    `json:"level"`
	DepartmentID *string `json:"departmentId"`
	CanApprove   bool    `json:"canApprove"`
}

func (c *Client) ListDepartments(ctx context.Context) ([]department.Department, error) {
	return call[[]department.Department](ctx, c, http.MethodGet, "/api/departments", nil, nil,
		"Failed to load departments")
}

func (c *Client) CreateDepartment(ctx context.Context, dto department.SaveDepartmentDTO) (department.Department, error) {
	if err := dto.Validate(); err != nil {
		return department.Department{}, err
	}
	return call[department.Department](ctx, c, http.MethodPost, "/api/departments", nil, dto,
		"Failed to create department")
}

func (c *Client) UpdateDepartment(ctx context.Context, id string, dto department.SaveDepartmentDTO) (department.Department, error) {
	if err := dto.Validate(); err != nil {
		return department.Department{}, err
	}
	return call[department.Department](ctx, c, http.MethodPut, "/api/departments/"+url.PathEscape(id), nil, dto,
		"Failed to update department")
}

func (c *Client) ListEntitlementRules(ctx context.Context) ([]EntitlementRule, error) {
	return call[[]EntitlementRule](ctx, c, http.MethodGet, "/api/entitlements/rules", nil, nil,
		"Failed to load entitlement rules")
}

func (c *Client) CreateEntitlementRule(ctx context.Context, rule EntitlementRule) (EntitlementRule, error) {
	if err := rule.Validate(); err != nil {
		return EntitlementRule{}, err
	}
	return call[EntitlementRule](ctx, c, http.MethodPost, "/api/entitlements/rules", nil, rule,
		"Failed to create entitlement rule")
}

func (c *Client) UpdateEntitlementRule(ctx context.Context, id string, rule EntitlementRule) (EntitlementRule, error) {
	if err := rule.Validate(); err != nil {
		return EntitlementRule{}, err
	}
	return call[EntitlementRule](ctx, c, http.MethodPut, "/api/entitlements/rules/"+url.PathEscape(id), nil, rule,
		"Failed to update entitlement rule")
}

func (c *Client) ListEntitlementExceptions(ctx context.Context) ([]EntitlementException, error) {
	return call[[]EntitlementException](ctx, c, http.MethodGet, "/api/entitlements/exceptions", nil, nil,
		"Failed to load entitlement exceptions")
}

func (c *Client) CreateEntitlementException(ctx context.Context, exc EntitlementException) (EntitlementException, error) {
	if err := exc.Validate(); err != nil {
		return EntitlementException{}, err
	}
	return call[EntitlementException](ctx, c, http.MethodPost, "/api/entitlements/exceptions", nil, exc,
		"Failed to create entitlement exception")
}

// ListBalances returns leave balances, for one employee when employeeID is set.
func (c *Client) ListBalances(ctx context.Context, employeeID string) ([]LeaveBalance, error) {
	query := url.Values{}
	if employeeID != "" {
		query.Set("employeeId", employeeID)
	}
	return call[[]LeaveBalance](ctx, c, http.MethodGet, "/api/entitlements/balances", query, nil,
		"Failed to load leave balances")
}

func (c *Client) GrantTOIL(ctx context.Context, credit TOILCredit) (TOILCredit, error) {
	if err := credit.Validate(); err != nil {
		return TOILCredit{}, err
	}
	return call[TOILCredit](ctx, c, http.MethodPost, "/api/entitlements/toil", nil, credit,
		"Failed to grant TOIL credit")
}

func (c *Client) ListPendingApprovals(ctx context.Context) ([]PendingApproval, error) {
	return call[[]PendingApproval](ctx, c, http.MethodGet, "/api/approvals/pending", nil, nil,
		"Failed to load pending approvals")
}

func (c *Client) Approve(ctx context.Context, id string, decision ApprovalDecision) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, "/api/approvals/"+url.PathEscape(id)+"/approve", nil, decision,
		"Failed to approve request")
	return err
}

func (c *Client) Reject(ctx context.Context, id string, decision ApprovalDecision) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, "/api/approvals/"+url.PathEscape(id)+"/reject", nil, decision,
		"Failed to reject request")
	return err
}

// Payslip fetches payslip data for a YYYY-MM period.
func (c *Client) Payslip(ctx context.Context, employeeID, period string) (PayrollDocument, error) {
	err := validation.Errors{
		"employeeId": validation.Validate(employeeID, validation.Required),
		"period":     validation.Validate(period, validation.Required, validation.Match(payslipPeriodPattern)),
	}.Filter()
	if err != nil {
		return PayrollDocument{}, err
	}
	query := url.Values{"period": []string{period}}
	return call[PayrollDocument](ctx, c, http.MethodGet, "/api/documents/payslip/"+url.PathEscape(employeeID), query, nil,
		"Failed to load payslip")
}

// EAForm fetches the yearly EA form data.
func (c *Client) EAForm(ctx context.Context, employeeID string, year int) (PayrollDocument, error) {
	yearText := strconv.Itoa(year)
	err := validation.Errors{
		"employeeId": validation.Validate(employeeID, validation.Required),
		"year":       validation.Validate(yearText, validation.Match(eaFormYearPattern)),
	}.Filter()
	if err != nil {
		return PayrollDocument{}, err
	}
	query := url.Values{"year": []string{yearText}}
	return call[PayrollDocument](ctx, c, http.MethodGet, "/api/documents/ea-form/"+url.PathEscape(employeeID), query, nil,
		"Failed to load EA form")
}

// Ping checks that the directory answers at all; any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/employees", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "Directory unreachable", Err: err}
	}
	resp.Body.Close()
	return nil
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, fallback string) (T, error) {
	var zero T

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return zero, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "method", method, "path", path, "error", err)
		return zero, &Error{Kind: KindNetwork, Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: fallback, Err: err}
	}

	c.logger.Debug("directory request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	var env envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fallback
		if decodeErr == nil && env.Error != "" {
			message = env.Error
		}
		return zero, &Error{Kind: KindHTTP, StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return zero, &Error{Kind: KindDecode, StatusCode: resp.StatusCode, Message: fallback, Err: decodeErr}
	}

	if !env.Success {
		message := fallback
		if env.Error != "" {
			message = env.Error
		}
		return zero, &Error{Kind: KindApplication, Message: message}
	}

	return env.Data, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read bearer token: %w", err)
	}
	if token == "" {
		c.logger.Debug("no bearer token available, sending request unauthenticated", "path", req.URL.Path)
		return nil
	}
	checkExpiry(token, c.now(), c.logger)
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
