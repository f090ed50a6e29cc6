package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fibuBack/internal/models"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    any  `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Success bool             `json:"success"`
	Error   *models.APIError `json:"error"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

func respondMeta(w http.ResponseWriter, status int, data, meta any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data, Meta: meta})
}

func respondError(w http.ResponseWriter, err error) {
	apiErr, ok := models.AsAPIError(err)
	if !ok {
		apiErr = apiErrorFor(err)
	}
	w.WriteHeader(httpStatusFor(apiErr))
	json.NewEncoder(w).Encode(errorEnvelope{Error: apiErr})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondError(w, models.NewAPIError(models.CodeValidation, message))
}

// apiErrorFor maps plain errors onto the envelope. Not-found sentinels keep
// their own code; anything else is an opaque internal error.
func apiErrorFor(err error) *models.APIError {
	switch {
	case errors.Is(err, models.ErrNoRecord),
		errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrProjectNotFound),
		errors.Is(err, models.ErrInvoiceNotFound),
		errors.Is(err, models.ErrTimeEntryNotFound),
		errors.Is(err, models.ErrRecurringTaskNotFound),
		errors.Is(err, models.ErrReminderNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return models.NewAPIError(models.CodeNotFound, "record not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		return models.NewAPIError(models.CodeValidation, "invalid email or password")
	case errors.Is(err, models.ErrDuplicateEmail):
		return models.NewAPIError(models.CodeValidation, "email is already registered")
	case isForeignKeyConstraintError(err):
		return models.NewAPIError(models.CodeValidation, "request references a record that does not exist")
	default:
		return models.NewAPIError("INTERNAL", "internal server error")
	}
}

func httpStatusFor(apiErr *models.APIError) int {
	switch apiErr.Code {
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeValidation, models.CodeInvalidStatus, models.CodeUnresolvedRef:
		return http.StatusBadRequest
	case models.CodeInvalidTransition, models.CodeInvoiceNotDraft, models.CodeCannotDeleteInvoice,
		models.CodeProjectCannotBeInvoiced, models.CodeAlreadyPaid, models.CodeInvoiceNotSent,
		models.CodeInvoiceCancelled, models.CodeTaskAlreadyPaused, models.CodeTaskAlreadyActive,
		models.CodeTaskNotActive, models.CodeAlreadyCompleted, models.CodeTimerAlreadyRunning,
		models.CodeTimerNotRunning, models.CodeTimeEntryInvoiced:
		return http.StatusConflict
	case models.CodeBatchFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
