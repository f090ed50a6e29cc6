package schedule

import (
	"testing"
	"time"
)

func TestNextDueMonthly(t *testing.T) {
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	got := NextDue(FrequencyMonthly, from)
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("monthly next due = %s, want %s", got, want)
	}
}

func TestNextDueWeekly(t *testing.T) {
	from := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	got := NextDue(FrequencyWeekly, from)
	if !got.Equal(from.AddDate(0, 0, 7)) {
		t.Fatalf("weekly next due = %s", got)
	}
}

func TestNextDueQuarterlyAndYearly(t *testing.T) {
	from := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	if got := NextDue(FrequencyQuarterly, from); !got.Equal(time.Date(2027, 3, 2, 0, 0, 0, 0, time.UTC)) {
		// Nov 30 + 3 calendar months normalizes past Feb 28.
		t.Fatalf("quarterly next due = %s", got)
	}
	if got := NextDue(FrequencyYearly, from); !got.Equal(time.Date(2027, 11, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("yearly next due = %s", got)
	}
}

func TestNextDueAnchorsToDueDate(t *testing.T) {
	// Processing three weeks late must not shift the schedule.
	due := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	got := NextDue(FrequencyWeekly, due)
	if !got.Equal(time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("next due must anchor to the old due date, got %s", got)
	}
}

func TestUpcomingThresholdDays(t *testing.T) {
	cases := map[string]int{
		FrequencyWeekly:    2,
		FrequencyMonthly:   7,
		FrequencyQuarterly: 14,
		FrequencyYearly:    30,
	}
	for freq, want := range cases {
		if got := UpcomingThresholdDays(freq); got != want {
			t.Fatalf("threshold(%s) = %d, want %d", freq, got, want)
		}
	}
}

func TestIsFrequency(t *testing.T) {
	for _, freq := range []string{FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly} {
		if !IsFrequency(freq) {
			t.Fatalf("expected %s to be known", freq)
		}
	}
	if IsFrequency("daily") {
		t.Fatal("daily is not a supported frequency")
	}
}
