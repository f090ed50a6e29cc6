package models

import (
	"testing"
	"time"

	"fibuBack/internal/schedule"
)

func TestAdvanceMonthly(t *testing.T) {
	due := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	task := RecurringTask{Frequency: schedule.FrequencyMonthly, NextDueAt: due, Active: true}
	task.Advance(due)
	if task.LastRunAt == nil || !task.LastRunAt.Equal(due) {
		t.Fatalf("last_run_at = %v, want %s", task.LastRunAt, due)
	}
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if !task.NextDueAt.Equal(want) {
		t.Fatalf("next_due_at = %s, want %s", task.NextDueAt, want)
	}
	if !task.Active {
		t.Fatal("task without end date must stay active")
	}
}

func TestAdvancePastEndDeactivates(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	task := RecurringTask{Frequency: schedule.FrequencyWeekly, NextDueAt: due, EndsAt: &ends, Active: true}
	task.Advance(now)
	if task.Active {
		t.Fatal("task whose end date elapsed must be deactivated by advance")
	}
}

func TestResumeRollsForwardPastNow(t *testing.T) {
	due := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	task := RecurringTask{Frequency: schedule.FrequencyMonthly, NextDueAt: due, Active: false}
	task.Resume(now)
	if !task.Active {
		t.Fatal("resume must reactivate the task")
	}
	if task.NextDueAt.Before(now) {
		t.Fatalf("resume left next_due_at in the past: %s < %s", task.NextDueAt, now)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !task.NextDueAt.Equal(want) {
		t.Fatalf("next_due_at = %s, want %s", task.NextDueAt, want)
	}
}

func TestResumeKeepsFutureDueDate(t *testing.T) {
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	task := RecurringTask{Frequency: schedule.FrequencyYearly, NextDueAt: due}
	task.Resume(now)
	if !task.NextDueAt.Equal(due) {
		t.Fatalf("future due date must not move, got %s", task.NextDueAt)
	}
}

func TestIsOverdueAndDueSoon(t *testing.T) {
	now := time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 4, 9, 10, 0, 0, 0, time.UTC)
	task := RecurringTask{Frequency: schedule.FrequencyWeekly, NextDueAt: yesterday, Active: true}
	if !task.IsOverdue(now) {
		t.Fatal("due yesterday must be overdue")
	}
	task.Active = false
	if task.IsOverdue(now) {
		t.Fatal("paused tasks are never overdue")
	}

	inTwoDays := now.AddDate(0, 0, 2)
	task = RecurringTask{Frequency: schedule.FrequencyWeekly, NextDueAt: inTwoDays, Active: true}
	if !task.IsDueSoon(now) {
		t.Fatal("weekly task due in 2 days is inside the notice window")
	}
	task.Frequency = schedule.FrequencyWeekly
	task.NextDueAt = now.AddDate(0, 0, 5)
	if task.IsDueSoon(now) {
		t.Fatal("weekly task due in 5 days is outside the 2-day window")
	}
}

func TestHasEnded(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	task := RecurringTask{}
	if task.HasEnded(now) {
		t.Fatal("task without end date never ends")
	}
	past := now.AddDate(0, 0, -1)
	task.EndsAt = &past
	if !task.HasEnded(now) {
		t.Fatal("elapsed end date must report ended")
	}
}
