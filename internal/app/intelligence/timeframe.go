package intelligence

import (
	"fmt"
	"strings"
	"time"
)

// TimeFrame is the named reporting window the query tools accept.
type TimeFrame string

const (
	FrameToday     TimeFrame = "today"
	FrameYesterday TimeFrame = "yesterday"
	FrameThisWeek  TimeFrame = "this-week"
	FrameThisMonth TimeFrame = "this-month"
	FrameAllTime   TimeFrame = "all-time"
)

// DefaultTimeFrame applies when a tool argument omits the frame.
const DefaultTimeFrame = FrameThisWeek

// ParseTimeFrame maps a caller-supplied string to a TimeFrame. An
// empty string is a deliberate omission and takes the default; any
// other unrecognized value is an error so that typos surface instead
// of silently widening or narrowing a report.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultTimeFrame, nil
	case FrameToday:
		return FrameToday, nil
	case FrameYesterday:
		return FrameYesterday, nil
	case FrameThisWeek:
		return FrameThisWeek, nil
	case FrameThisMonth:
		return FrameThisMonth, nil
	case FrameAllTime:
		return FrameAllTime, nil
	default:
		return "", fmt.Errorf("unknown time frame %q, expected one of today, yesterday, this-week, this-month, all-time", s)
	}
}

// DateRange is a closed interval usable as inequality bounds on a
// timestamp-indexed query. Start <= End always holds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveRange turns a TimeFrame into concrete bounds relative to now.
// Open frames end at now; "yesterday" is closed and ends one second
// before the start of today. Unrecognized values (including the zero
// value) resolve as DefaultTimeFrame so range math never fails.
func ResolveRange(frame TimeFrame, now time.Time, weekStart time.Weekday) DateRange {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch frame {
	case FrameToday:
		return DateRange{Start: dayStart, End: now}
	case FrameYesterday:
		return DateRange{
			Start: dayStart.AddDate(0, 0, -1),
			End:   dayStart.Add(-time.Second),
		}
	case FrameThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: monthStart, End: now}
	case FrameAllTime:
		return DateRange{Start: time.Unix(0, 0), End: now}
	default: // FrameThisWeek and anything unrecognized
		back := (int(now.Weekday()) - int(weekStart) + 7) % 7
		return DateRange{Start: dayStart.AddDate(0, 0, -back), End: now}
	}
}
