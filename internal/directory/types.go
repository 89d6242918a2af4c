package directory

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ApprovalKind string

const (
	ApprovalKindLeave      ApprovalKind = "leave"
	ApprovalKindAttendance ApprovalKind = "attendance"
	ApprovalKindClaim      ApprovalKind = "claim"
	ApprovalKindTOIL       ApprovalKind = "toil"
)

type PendingApproval struct {
	ID           string       `json:"id"`
	Kind         ApprovalKind `json:"kind"`
	EmployeeID   string       `json:"employeeId"`
	EmployeeName string       `json:"employeeName"`
	SubmittedAt  string       `json:"submittedAt"`
	Summary      string       `json:"summary"`
}

// ApprovalDecision is the optional body of approve and reject calls.
type ApprovalDecision struct {
	Note string `json:"note,omitempty"`
}

type EntitlementRule struct {
	ID               string  `json:"id,omitempty"`
	LeaveType        string  `json:"leaveType"`
	Name             string  `json:"name"`
	MinServiceMonths int     `json:"minServiceMonths"`
	MaxServiceMonths *int    `json:"maxServiceMonths"`
	Days             float64 `json:"days"`
	EmploymentType   *string `json:"employmentType"`
}

func (r EntitlementRule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LeaveType, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MinServiceMonths, validation.Min(0)),
		validation.Field(&r.Days, validation.Min(0.0)),
	)
}

type EntitlementException struct {
	ID         string  `json:"id,omitempty"`
	EmployeeID string  `json:"employeeId"`
	LeaveType  string  `json:"leaveType"`
	Days       float64 `json:"days"`
	Reason     string  `json:"reason"`
}

func (e EntitlementException) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.EmployeeID, validation.Required),
		validation.Field(&e.LeaveType, validation.Required),
		validation.Field(&e.Reason, validation.Required),
	)
}

type LeaveBalance struct {
	EmployeeID string  `json:"employeeId"`
	LeaveType  string  `json:"leaveType"`
	Entitled   float64 `json:"entitled"`
	Taken      float64 `json:"taken"`
	Pending    float64 `json:"pending"`
	Balance    float64 `json:"balance"`
}

type TOILCredit struct {
	ID         string  `json:"id,omitempty"`
	EmployeeID string  `json:"employeeId"`
	Hours      float64 `json:"hours"`
	WorkedOn   string  `json:"workedOn"`
	Reason     string  `json:"reason"`
	ExpiresOn  string  `json:"expiresOn,omitempty"`
}

func (t TOILCredit) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.EmployeeID, validation.Required),
		validation.Field(&t.Hours, validation.Required, validation.Min(0.5)),
		validation.Field(&t.WorkedOn, validation.Required, validation.Date("2006-01-02")),
	)
}

type DocumentKind string

const (
	DocumentKindPayslip DocumentKind = "payslip"
	DocumentKindEAForm  DocumentKind = "ea_form"
)

// PayrollDocument carries the rendered markup or the raw fields of a payslip or EA form.
type PayrollDocument struct {
	EmployeeID string                 `json:"employeeId"`
	Kind       DocumentKind           `json:"kind"`
	Period     string                 `json:"period"`
	HTML       string                 `json:"html,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	payslipPeriodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	eaFormYearPattern    = regexp.MustCompile(`^\d{4}$`)
)
