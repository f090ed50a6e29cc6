package schedule

import "time"

// Frequency values supported by recurring tasks and reminder recurrence.
const (
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// frequencyRules keeps the per-frequency scheduling data in one table so the
// advance delta and the advance-notice window stay centrally testable.
var frequencyRules = map[string]struct {
	days, months, years int
	upcomingDays        int
}{
	FrequencyWeekly:    {days: 7, upcomingDays: 2},
	FrequencyMonthly:   {months: 1, upcomingDays: 7},
	FrequencyQuarterly: {months: 3, upcomingDays: 14},
	FrequencyYearly:    {years: 1, upcomingDays: 30},
}

// IsFrequency reports whether s is a known frequency.
func IsFrequency(s string) bool {
	_, ok := frequencyRules[s]
	return ok
}

// NextDue computes the next due date for a frequency, anchored to the
// current due date rather than to "now" so late processing does not drift
// the schedule. Unknown frequencies fall back to monthly.
func NextDue(frequency string, from time.Time) time.Time {
	rule, ok := frequencyRules[frequency]
	if !ok {
		rule = frequencyRules[FrequencyMonthly]
	}
	return from.AddDate(rule.years, rule.months, rule.days)
}

// UpcomingThresholdDays returns how many days before the due date an
// advance reminder should fire.
func UpcomingThresholdDays(frequency string) int {
	rule, ok := frequencyRules[frequency]
	if !ok {
		rule = frequencyRules[FrequencyMonthly]
	}
	return rule.upcomingDays
}
