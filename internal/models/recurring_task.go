package models

import (
	"time"

	"github.com/shopspring/decimal"

	"fibuBack/internal/schedule"
	"fibuBack/internal/timeutil"
)

// Recurring task log actions (append-only audit trail).
const (
	TaskLogReminderCreated   = "reminder_created"
	TaskLogSkipped           = "skipped"
	TaskLogManuallyCompleted = "manually_completed"
)

// RecurringTask is a periodic billing or maintenance obligation. The task
// only ever moves forward in time: Advance shifts next_due_at by one period
// anchored on the previous due date, Resume rolls it past "now" after a
// pause.
type RecurringTask struct {
	ID          int              `json:"id"`
	UserID      int              `json:"user_id"`
	ClientID    *int             `json:"client_id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Frequency   string           `json:"frequency"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	NextDueAt   time.Time        `json:"next_due_at"`
	LastRunAt   *time.Time       `json:"last_run_at,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	EndsAt      *time.Time       `json:"ends_at,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}

// RecurringTaskLog is one append-only audit record of a scheduler or user
// action on a task occurrence.
type RecurringTaskLog struct {
	ID        int       `json:"id"`
	TaskID    int       `json:"task_id"`
	Action    string    `json:"action"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasEnded reports whether the task ran past its end date.
func (t RecurringTask) HasEnded(now time.Time) bool {
	return t.EndsAt != nil && t.EndsAt.Before(now)
}

// IsOverdue reports whether an active task slipped past the start of today.
func (t RecurringTask) IsOverdue(now time.Time) bool {
	return t.Active && t.NextDueAt.Before(timeutil.StartOfDay(now))
}

// IsDueSoon reports whether an active task falls inside its frequency's
// advance-notice window.
func (t RecurringTask) IsDueSoon(now time.Time) bool {
	if !t.Active {
		return false
	}
	threshold := now.AddDate(0, 0, schedule.UpcomingThresholdDays(t.Frequency))
	return !t.NextDueAt.After(threshold)
}

// Advance moves the task one period forward: last_run_at takes the old due
// date and next_due_at advances anchored on it. A task that ran past its
// end date is forced inactive.
func (t *RecurringTask) Advance(now time.Time) {
	due := t.NextDueAt
	t.LastRunAt = &due
	t.NextDueAt = schedule.NextDue(t.Frequency, due)
	if t.HasEnded(now) {
		t.Active = false
	}
}

// Pause deactivates the task without touching its schedule.
func (t *RecurringTask) Pause() {
	t.Active = false
}

// Resume reactivates the task. The due date is rolled forward period by
// period until it is no longer in the past, so a long pause never resumes
// into an already-missed occurrence.
func (t *RecurringTask) Resume(now time.Time) {
	for t.NextDueAt.Before(now) {
		t.NextDueAt = schedule.NextDue(t.Frequency, t.NextDueAt)
	}
	t.Active = true
}
