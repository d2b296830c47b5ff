package usage

import (
	"fmt"
	"strconv"
	"time"
)

// Granularity selects how samples are grouped into buckets
type Granularity int

const (
	// HourOfDay groups by hour 0-23, labelled "9:00"
	HourOfDay Granularity = iota
	// DayOfWeek groups by weekday Sunday first, labelled "Sun".."Sat"
	DayOfWeek
	// CalendarDay groups by date, labelled "2006-01-02"
	CalendarDay
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (g Granularity) String() string {
	switch g {
	case HourOfDay:
		return "hour"
	case DayOfWeek:
		return "weekday"
	case CalendarDay:
		return "day"
	default:
		return "unknown"
	}
}

// ParseGranularity accepts "hour", "weekday" or "day"
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "hour":
		return HourOfDay, nil
	case "weekday":
		return DayOfWeek, nil
	case "day":
		return CalendarDay, nil
	default:
		return 0, fmt.Errorf("unknown granularity %q", s)
	}
}

// key maps t to an integer that sorts in the bucket's natural order.
// t must already be in the bucketing location.
func (g Granularity) key(t time.Time) int {
	switch g {
	case DayOfWeek:
		return int(t.Weekday())
	case CalendarDay:
		y, m, d := t.Date()
		return y*10000 + int(m)*100 + d
	default:
		return t.Hour()
	}
}

func (g Granularity) label(key int) string {
	switch g {
	case DayOfWeek:
		return weekdayLabels[key]
	case CalendarDay:
		return fmt.Sprintf("%04d-%02d-%02d", key/10000, key/100%100, key%100)
	default:
		return strconv.Itoa(key) + ":00"
	}
}
