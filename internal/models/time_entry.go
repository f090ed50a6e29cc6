package models

import "time"

// TimeEntry is a billable or non-billable interval worked on an hourly
// project. EndedAt stays nil while the timer runs. Once rolled into an
// invoice the entry carries that invoice id permanently and becomes
// immutable.
type TimeEntry struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	ProjectID       int        `json:"project_id"`
	Description     string     `json:"description,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Billable        bool       `json:"billable"`
	InvoiceID       *int       `json:"invoice_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// IsRunning reports whether the timer is still open.
func (e TimeEntry) IsRunning() bool {
	return e.EndedAt == nil
}

// IsInvoiced reports whether the entry was rolled into an invoice.
func (e TimeEntry) IsInvoiced() bool {
	return e.InvoiceID != nil
}

// DeriveDuration recomputes DurationMinutes from the interval when both
// ends are present. Called on every save.
func (e *TimeEntry) DeriveDuration() {
	if e.EndedAt == nil {
		return
	}
	d := e.EndedAt.Sub(e.StartedAt)
	if d < 0 {
		d = 0
	}
	e.DurationMinutes = int(d / time.Minute)
}
