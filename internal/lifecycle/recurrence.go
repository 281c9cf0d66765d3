package lifecycle

import (
	"strconv"
	"time"

	"github.com/ptran/checkmate/internal/model"
)

// dateLayout is the wire format for recurrence end dates.
const dateLayout = "2006-01-02"

// localMidnight truncates t to midnight in local time. All recurrence
// math anchors on local midnight so a due date means "that calendar day".
func localMidnight(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// clampToMonth returns the date for day in (year, month), clamped to the
// month's last day when the month is shorter.
func clampToMonth(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// nthWeekdayOf returns the ordinal-th (1-indexed) occurrence of weekday in
// (year, month), scanning forward from the 1st. An ordinal past the last
// occurrence clamps to the last one.
func nthWeekdayOf(year int, month time.Month, weekday time.Weekday, ordinal int) time.Time {
	if ordinal < 1 {
		ordinal = 1
	}
	var last time.Time
	seen := 0
	for day := 1; day <= daysIn(year, month); day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		if d.Weekday() != weekday {
			continue
		}
		seen++
		last = d
		if seen == ordinal {
			return d
		}
	}
	return last
}

// NextDueDate computes the occurrence following anchor for the given
// recurrence rule, at local midnight. Missing or invalid input yields nil
// rather than an error: a malformed rule must never crash a listing.
func NextDueDate(anchor *time.Time, recurrenceType string, details model.RecurrenceDetails) *time.Time {
	if anchor == nil || recurrenceType == "" {
		return nil
	}
	base := localMidnight(*anchor)

	var next time.Time
	switch recurrenceType {
	case model.RecurrenceDaily:
		next = base.AddDate(0, 0, 1)

	case model.RecurrenceWeekly:
		next = nextWeekly(base, details.Days)

	case model.RecurrenceMonthly:
		if details.Kind == model.RecurrenceKindWeekday {
			y, m, _ := base.AddDate(0, 1, -base.Day()+1).Date()
			next = nthWeekdayOf(y, m, time.Weekday(details.Weekday), details.WeekdayOrdinal)
		} else {
			day := details.Day
			if day == 0 {
				day = base.Day()
			}
			y, m, _ := base.AddDate(0, 1, -base.Day()+1).Date()
			next = clampToMonth(y, m, day)
		}

	case model.RecurrenceYearly:
		month := time.Month(details.Month)
		if details.Month == 0 {
			month = base.Month()
		}
		if details.Kind == model.RecurrenceKindWeekday {
			next = nthWeekdayOf(base.Year()+1, month, time.Weekday(details.Weekday), details.WeekdayOrdinal)
		} else {
			day := details.Day
			if day == 0 {
				day = base.Day()
			}
			next = clampToMonth(base.Year()+1, month, day)
		}

	default:
		return nil
	}

	if next.IsZero() {
		return nil
	}
	return &next
}

// nextWeekly finds the smallest strictly-positive day offset (1..7)
// landing on any target weekday. An empty target set means plain +7 days.
func nextWeekly(base time.Time, days []int) time.Time {
	if len(days) == 0 {
		return base.AddDate(0, 0, 7)
	}
	targets := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			targets[time.Weekday(d)] = true
		}
	}
	if len(targets) == 0 {
		return base.AddDate(0, 0, 7)
	}
	for offset := 1; offset <= 7; offset++ {
		candidate := base.AddDate(0, 0, offset)
		if targets[candidate.Weekday()] {
			return candidate
		}
	}
	return base.AddDate(0, 0, 7)
}

// SeriesEnded reports whether a recurring todo's series has run out: by
// occurrence count, by end date, or trivially because the todo does not
// recur. Malformed end configuration counts as ended, never as an error.
func SeriesEnded(todo *model.Todo) bool {
	if !todo.Recurring() {
		return true
	}
	switch todo.RecurrenceEndType {
	case "", model.RecurrenceEndNever:
		return false
	case model.RecurrenceEndOccurrences:
		return todo.RecurrenceCount >= maxOccurrences(todo.RecurrenceEndValue)
	case model.RecurrenceEndDate:
		end, err := time.ParseInLocation(dateLayout, todo.RecurrenceEndValue, time.Local)
		if err != nil {
			return true
		}
		anchor := todo.DueDate
		if anchor == nil {
			anchor = &todo.CreatedAt
		}
		next := NextDueDate(anchor, todo.RecurrenceType, todo.RecurrenceDetails)
		return next == nil || next.After(localMidnight(end))
	default:
		return true
	}
}

// maxOccurrences parses the occurrence limit, defaulting to 1.
func maxOccurrences(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
