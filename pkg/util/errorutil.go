package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewCaseNotFound flags an unknown case reference.
func NewCaseNotFound(ref string) error {
	return NewNotFound("case", map[string]any{"case": ref})
}

// NewInvalidTransition rejects a status edge not present in the lifecycle.
func NewInvalidTransition(current, requested string) error {
	return NewDomainError(
		"INVALID_TRANSITION",
		fmt.Sprintf("cannot transition from %s to %s", current, requested),
		http.StatusConflict,
		map[string]any{"current": current, "requested": requested},
	)
}

// NewInvalidDateRange rejects a schedule violating the date rules.
func NewInvalidDateRange(message string, details map[string]any) error {
	return NewDomainError("INVALID_DATE_RANGE", message, http.StatusBadRequest, details)
}

// NewAlreadyScored rejects a second NPS submission.
func NewAlreadyScored(caseNumber string) error {
	return NewDomainError(
		"ALREADY_SCORED",
		"NPS score already submitted for this case",
		http.StatusConflict,
		map[string]any{"case_number": caseNumber},
	)
}

// NewNotClosed rejects closure-only actions on a non-closed case.
func NewNotClosed(status string) error {
	return NewDomainError(
		"NOT_CLOSED",
		"case must be closed before this action",
		http.StatusConflict,
		map[string]any{"status": status},
	)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
