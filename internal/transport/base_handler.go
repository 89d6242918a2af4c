package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Envelope is the response shape shared with the directory backend, so the UI keeps one decoder.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteData wraps data in a success envelope.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope with a plain message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteJSON(w, status, Envelope{Success: false, Error: message})
}

// WriteAppError turns any service error into a failure envelope. Directory failures and
// validation errors are translated first; anything unknown becomes a 500.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err error) {
	appErr := ToAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "code", appErr.Code, "error", err)
	} else {
		h.Logger.Warn("request rejected", "code", appErr.Code, "error", err)
	}
	h.WriteJSON(w, appErr.StatusCode, Envelope{
		Success: false,
		Error:   appErr.GetDetailedMessage(),
		Code:    string(appErr.Code),
		Details: appErr.Details,
	})
}

// DecodeJSON reads the request body into dst and rejects unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return ExtractBearerToken(r)
}

func ExtractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// appErrorer is implemented by errors that carry their own HTTP mapping, such as
// directory failures.
type appErrorer interface {
	AppError() *internal.AppError
}

// ToAppError normalises err into an *internal.AppError.
func ToAppError(err error) *internal.AppError {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	var mapper appErrorer
	if errors.As(err, &mapper) {
		return mapper.AppError()
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return internal.NewValidationFieldErrors(flattenValidation(fieldErrs))
	}

	return internal.NewInternalError("internal server error", err)
}

func flattenValidation(errs validation.Errors) []internal.ValidationError {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]internal.ValidationError, 0, len(fields))
	for _, field := range fields {
		fieldErr := errs[field]
		code := "invalid"
		var ve validation.Error
		if errors.As(fieldErr, &ve) {
			code = ve.Code()
		}
		out = append(out, internal.ValidationError{
			Field:   field,
			Message: field + ": " + fieldErr.Error(),
			Code:    code,
		})
	}
	return out
}
