package analytics

import "time"

// LookbackCutoff returns now minus the given number of calendar months. The
// day of month is clamped to the last day of the target month, so March 31
// minus one month is the last day of February. A lookback of zero means no
// bound and yields the zero time with ok == false.
func LookbackCutoff(now time.Time, months int) (cutoff time.Time, ok bool) {
	if months <= 0 {
		return time.Time{}, false
	}

	year, month, day := now.Date()
	target := time.Date(year, month-time.Month(months), 1, 0, 0, 0, 0, now.Location())
	if last := daysIn(target.Year(), target.Month(), now.Location()); day > last {
		day = last
	}

	hour, min, sec := now.Clock()
	return time.Date(target.Year(), target.Month(), day, hour, min, sec, now.Nanosecond(), now.Location()), true
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
