package services

import (
	"testing"
	"time"

	"fibuBack/internal/models"
	"fibuBack/internal/schedule"
	"fibuBack/internal/timeutil"
)

func TestDueTaskReminderAtNine(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 30, 0, 0, timeutil.Location())
	task := models.RecurringTask{
		ID:        7,
		UserID:    3,
		Title:     "USt-Voranmeldung",
		Frequency: schedule.FrequencyMonthly,
		NextDueAt: due,
	}

	rem := dueTaskReminder(task)
	want := time.Date(2026, 3, 10, 9, 0, 0, 0, timeutil.Location())
	if !rem.DueAt.Equal(want) {
		t.Errorf("due_at = %s; want %s", rem.DueAt, want)
	}
	if !rem.IsSystem {
		t.Error("expected a system reminder")
	}
	if rem.SystemType == nil || *rem.SystemType != models.SystemTypeRecurringTask {
		t.Errorf("system_type = %v; want %s", rem.SystemType, models.SystemTypeRecurringTask)
	}
	if rem.RemindableID == nil || *rem.RemindableID != 7 {
		t.Errorf("remindable_id = %v; want 7", rem.RemindableID)
	}
}

func TestUpcomingTaskReminderLeadsTheDueDate(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, timeutil.Location())
	tests := []struct {
		frequency string
		wantDay   time.Time
	}{
		{schedule.FrequencyWeekly, time.Date(2026, 3, 8, 9, 0, 0, 0, timeutil.Location())},
		{schedule.FrequencyMonthly, time.Date(2026, 3, 3, 9, 0, 0, 0, timeutil.Location())},
		{schedule.FrequencyQuarterly, time.Date(2026, 2, 24, 9, 0, 0, 0, timeutil.Location())},
		{schedule.FrequencyYearly, time.Date(2026, 2, 8, 9, 0, 0, 0, timeutil.Location())},
	}
	for _, tt := range tests {
		task := models.RecurringTask{ID: 1, Title: "Backup", Frequency: tt.frequency, NextDueAt: due}
		rem := upcomingTaskReminder(task)
		if !rem.DueAt.Equal(tt.wantDay) {
			t.Errorf("%s: due_at = %s; want %s", tt.frequency, rem.DueAt, tt.wantDay)
		}
		if rem.DueAt.After(due) || rem.DueAt.Equal(due) {
			t.Errorf("%s: advance notice must precede the due date", tt.frequency)
		}
	}
}

func TestUpcomingTaskReminderShape(t *testing.T) {
	task := models.RecurringTask{
		ID:        9,
		UserID:    2,
		Title:     "Serverrechnung",
		Frequency: schedule.FrequencyMonthly,
		NextDueAt: time.Date(2026, 4, 1, 0, 0, 0, 0, timeutil.Location()),
	}

	rem := upcomingTaskReminder(task)
	if want := "Bald fällig: Serverrechnung"; rem.Title != want {
		t.Errorf("title = %q; want %q", rem.Title, want)
	}
	if rem.Priority != models.PriorityLow {
		t.Errorf("priority = %q; want %q", rem.Priority, models.PriorityLow)
	}
	if rem.SystemType == nil || *rem.SystemType != models.SystemTypeRecurringTaskUpcoming {
		t.Errorf("system_type = %v; want %s", rem.SystemType, models.SystemTypeRecurringTaskUpcoming)
	}
}
