package models

import (
	"testing"
	"time"

	"fibuBack/internal/schedule"
)

func TestEffectiveDueAt(t *testing.T) {
	due := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	r := Reminder{DueAt: due}
	if !r.EffectiveDueAt().Equal(due) {
		t.Fatal("without snooze the due date is effective")
	}
	snoozed := due.Add(48 * time.Hour)
	r.SnoozedUntil = &snoozed
	if !r.EffectiveDueAt().Equal(snoozed) {
		t.Fatal("snoozed_until must win over due_at")
	}
}

func TestNextOccurrence(t *testing.T) {
	recurrence := schedule.FrequencyWeekly
	done := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	snoozed := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	r := Reminder{
		ID:           7,
		Title:        "Umsatzsteuervoranmeldung",
		DueAt:        time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		SnoozedUntil: &snoozed,
		CompletedAt:  &done,
		Recurrence:   &recurrence,
		Priority:     PriorityHigh,
	}
	next := r.NextOccurrence()
	if next.ID != 0 {
		t.Fatal("successor must be a new record")
	}
	want := time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC)
	if !next.DueAt.Equal(want) {
		t.Fatalf("successor due_at = %s, want %s", next.DueAt, want)
	}
	if next.SnoozedUntil != nil || next.CompletedAt != nil {
		t.Fatal("successor must start unsnoozed and uncompleted")
	}
	if next.Priority != PriorityHigh || next.Recurrence == nil || *next.Recurrence != recurrence {
		t.Fatal("successor keeps priority and recurrence")
	}
}

func TestIsRemindableType(t *testing.T) {
	for _, tag := range []string{RemindableClient, RemindableProject, RemindableInvoice, RemindableRecurringTask} {
		if !IsRemindableType(tag) {
			t.Fatalf("expected %s to be remindable", tag)
		}
	}
	if IsRemindableType("time_entry") {
		t.Fatal("time entries are not remindable")
	}
}

func TestTimeEntryDeriveDuration(t *testing.T) {
	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	e := TimeEntry{StartedAt: start, EndedAt: &end}
	e.DeriveDuration()
	if e.DurationMinutes != 90 {
		t.Fatalf("duration = %d, want 90", e.DurationMinutes)
	}

	running := TimeEntry{StartedAt: start, DurationMinutes: 5}
	running.DeriveDuration()
	if running.DurationMinutes != 5 {
		t.Fatal("running entries keep their stored duration")
	}
	if !running.IsRunning() {
		t.Fatal("entry without ended_at is running")
	}
}

func TestEmailRetrySchedule(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := EmailLog{Attempts: 0}
	at, ok := l.NextRetryAt(now)
	if !ok || !at.Equal(now.Add(60*time.Second)) {
		t.Fatalf("first retry = %s, want +60s", at)
	}
	l.Attempts = 2
	at, ok = l.NextRetryAt(now)
	if !ok || !at.Equal(now.Add(900*time.Second)) {
		t.Fatalf("third retry = %s, want +900s", at)
	}
	l.Attempts = 3
	if _, ok = l.NextRetryAt(now); ok {
		t.Fatal("backoff schedule is exhausted after three attempts")
	}
}
