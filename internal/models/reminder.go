package models

import (
	"time"

	"fibuBack/internal/schedule"
)

// Reminder priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// System reminder types set by the schedulers.
const (
	SystemTypeRecurringTask         = "recurring_task"
	SystemTypeRecurringTaskUpcoming = "recurring_task_upcoming"
)

// Remindable entity tags. A reminder optionally points at one of these
// entity kinds by tag + id; the pair is validated at the API boundary.
const (
	RemindableClient        = "client"
	RemindableProject       = "project"
	RemindableInvoice       = "invoice"
	RemindableRecurringTask = "recurring_task"
)

// Reminder is a due-date notice, standalone or attached to a client,
// project, invoice or recurring task. System reminders are produced by the
// schedulers and not editable by end users.
type Reminder struct {
	ID             int        `json:"id"`
	UserID         int        `json:"user_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	DueAt          time.Time  `json:"due_at"`
	SnoozedUntil   *time.Time `json:"snoozed_until,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Recurrence     *string    `json:"recurrence,omitempty"`
	Priority       string     `json:"priority"`
	IsSystem       bool       `json:"is_system"`
	SystemType     *string    `json:"system_type,omitempty"`
	RemindableType *string    `json:"remindable_type,omitempty"`
	RemindableID   *int       `json:"remindable_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// IsRemindableType reports whether s is a known remindable entity tag.
func IsRemindableType(s string) bool {
	switch s {
	case RemindableClient, RemindableProject, RemindableInvoice, RemindableRecurringTask:
		return true
	}
	return false
}

// IsCompleted reports whether the reminder was completed.
func (r Reminder) IsCompleted() bool {
	return r.CompletedAt != nil
}

// EffectiveDueAt returns the snoozed-until time when set, otherwise due_at.
func (r Reminder) EffectiveDueAt() time.Time {
	if r.SnoozedUntil != nil {
		return *r.SnoozedUntil
	}
	return r.DueAt
}

// NextOccurrence builds the successor reminder spawned when a recurring
// reminder is completed: same content, priority and recurrence, due date
// advanced one period, snooze and completion cleared.
func (r Reminder) NextOccurrence() Reminder {
	next := r
	next.ID = 0
	next.DueAt = schedule.NextDue(*r.Recurrence, r.DueAt)
	next.SnoozedUntil = nil
	next.CompletedAt = nil
	next.CreatedAt = time.Time{}
	next.UpdatedAt = nil
	return next
}
