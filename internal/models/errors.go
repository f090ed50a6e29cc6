package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecord              = errors.New("models: no matching record found")
	ErrInvalidCredentials    = errors.New("models: invalid credentials")
	ErrDuplicateEmail        = errors.New("models: duplicate email")
	ErrUserNotFound          = errors.New("models: user not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrTimeEntryNotFound     = errors.New("time entry not found")
	ErrRecurringTaskNotFound = errors.New("recurring task not found")
	ErrReminderNotFound      = errors.New("reminder not found")
)

// Error codes surfaced in the API error envelope.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeInvalidStatus           = "INVALID_STATUS"
	CodeInvoiceNotDraft         = "INVOICE_NOT_DRAFT"
	CodeCannotDeleteInvoice     = "CANNOT_DELETE_INVOICE"
	CodeProjectCannotBeInvoiced = "PROJECT_CANNOT_BE_INVOICED"
	CodeAlreadyPaid             = "ALREADY_PAID"
	CodeInvoiceNotSent          = "INVOICE_NOT_SENT"
	CodeInvoiceCancelled        = "INVOICE_CANCELLED"
	CodeBatchFailed             = "BATCH_FAILED"
	CodeUnresolvedRef           = "UNRESOLVED_REF"
	CodeTaskAlreadyPaused       = "TASK_ALREADY_PAUSED"
	CodeTaskAlreadyActive       = "TASK_ALREADY_ACTIVE"
	CodeTaskNotActive           = "TASK_NOT_ACTIVE"
	CodeAlreadyCompleted        = "ALREADY_COMPLETED"
	CodeTimerAlreadyRunning     = "TIMER_ALREADY_RUNNING"
	CodeTimerNotRunning         = "TIMER_NOT_RUNNING"
	CodeTimeEntryInvoiced       = "TIME_ENTRY_INVOICED"
)

// APIError is a rejection the API reports verbatim to the caller: a machine
// readable code, a human readable message and optional remediation steps.
type APIError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError with optional suggestions.
func NewAPIError(code, message string, suggestions ...string) *APIError {
	return &APIError{Code: code, Message: message, Suggestions: suggestions}
}

// NewInvalidTransition reports an illegal state machine move, naming both
// states so the caller can see where it stands.
func NewInvalidTransition(entity, from, to string) *APIError {
	return &APIError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition %s from %q to %q", entity, from, to),
	}
}

// AsAPIError unwraps err into an APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
