package timeutil

import "time"

var berlinLocation = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.FixedZone("Europe/Berlin", 1*60*60)
	}
	return loc
}

// Now returns the current time in Europe/Berlin timezone.
func Now() time.Time {
	return time.Now().In(berlinLocation)
}

// InBerlin converts provided time to Europe/Berlin timezone.
func InBerlin(t time.Time) time.Time {
	return t.In(berlinLocation)
}

// Location returns Europe/Berlin location instance.
func Location() *time.Location {
	return berlinLocation
}

// StartOfDay truncates the time to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AtNine returns the same calendar day at 09:00 local time. Reminder due
// times produced by the schedulers use this anchor.
func AtNine(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, t.Location())
}
