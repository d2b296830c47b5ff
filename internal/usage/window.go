package usage

import "time"

// Today is the window from local midnight of now's day up to now
func Today(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	y, m, d := local.Date()
	return Window{Start: time.Date(y, m, d, 0, 0, 0, 0, loc), End: now}
}

// CalendarWeek is the window from the most recent Sunday midnight up to now.
// Unlike the summary's rolling 7 days it resets every Sunday.
func CalendarWeek(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	y, m, d := local.Date()
	return Window{
		Start: time.Date(y, m, d-int(local.Weekday()), 0, 0, 0, 0, loc),
		End:   now,
	}
}

// Trailing is the window of length d ending at now
func Trailing(now time.Time, d time.Duration) Window {
	return Window{Start: now.Add(-d), End: now}
}
