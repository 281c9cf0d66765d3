package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptran/checkmate/internal/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestNextDueDateDaily(t *testing.T) {
	// Anchors normalize to local midnight before the computation.
	anchor := time.Date(2024, 3, 10, 15, 42, 7, 0, time.Local)

	next := NextDueDate(&anchor, model.RecurrenceDaily, model.RecurrenceDetails{})
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 3, 11), *next)
}

func TestNextDueDateWeeklyWithTargets(t *testing.T) {
	// 2024-03-13 is a Wednesday; targets Monday and Friday. The upcoming
	// Friday wins over wrapping to Monday.
	anchor := date(2024, 3, 13)

	next := NextDueDate(&anchor, model.RecurrenceWeekly, model.RecurrenceDetails{Days: []int{1, 5}})
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 3, 15), *next)
	assert.Equal(t, time.Friday, next.Weekday())
}

func TestNextDueDateWeeklySameWeekdayWrapsFullWeek(t *testing.T) {
	// Only target is the anchor's own weekday: strictly-positive offset
	// means a full week out, not today.
	anchor := date(2024, 3, 13)

	next := NextDueDate(&anchor, model.RecurrenceWeekly, model.RecurrenceDetails{Days: []int{3}})
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 3, 20), *next)
}

func TestNextDueDateWeeklyNoTargets(t *testing.T) {
	anchor := date(2024, 3, 10)

	next := NextDueDate(&anchor, model.RecurrenceWeekly, model.RecurrenceDetails{})
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 3, 17), *next)
}

func TestNextDueDateMonthlyClampsShortMonths(t *testing.T) {
	// Jan 31 repeating monthly lands on the last day of February.
	anchor := date(2024, 1, 31)

	next := NextDueDate(&anchor, model.RecurrenceMonthly, model.RecurrenceDetails{Kind: model.RecurrenceKindDate})
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 2, 29), *next, "2024 is a leap year")

	anchor = date(2023, 1, 31)
	next = NextDueDate(&anchor, model.RecurrenceMonthly, model.RecurrenceDetails{Kind: model.RecurrenceKindDate})
	require.NotNil(t, next)
	assert.Equal(t, date(2023, 2, 28), *next)
}

func TestNextDueDateMonthlyNthWeekday(t *testing.T) {
	// Second Monday of the month after March 2024: April 8.
	anchor := date(2024, 3, 10)

	next := NextDueDate(&anchor, model.RecurrenceMonthly, model.RecurrenceDetails{
		Kind:           model.RecurrenceKindWeekday,
		Weekday:        int(time.Monday),
		WeekdayOrdinal: 2,
	})
	require.NotNil(t, next)
	assert.Equal(t, date(2024, 4, 8), *next)
}

func TestNextDueDateYearlyFeb29Clamps(t *testing.T) {
	anchor := date(2024, 2, 29)

	next := NextDueDate(&anchor, model.RecurrenceYearly, model.RecurrenceDetails{Kind: model.RecurrenceKindDate})
	require.NotNil(t, next)
	assert.Equal(t, date(2025, 2, 28), *next)
}

func TestNextDueDateYearlyNthWeekdayOfMonth(t *testing.T) {
	// Fourth Thursday of November (Thanksgiving), from any 2024 anchor.
	anchor := date(2024, 6, 1)

	next := NextDueDate(&anchor, model.RecurrenceYearly, model.RecurrenceDetails{
		Kind:           model.RecurrenceKindWeekday,
		Month:          11,
		Weekday:        int(time.Thursday),
		WeekdayOrdinal: 4,
	})
	require.NotNil(t, next)
	assert.Equal(t, date(2025, 11, 27), *next)
}

func TestNextDueDateInvalidInput(t *testing.T) {
	anchor := date(2024, 3, 10)

	assert.Nil(t, NextDueDate(nil, model.RecurrenceDaily, model.RecurrenceDetails{}))
	assert.Nil(t, NextDueDate(&anchor, "", model.RecurrenceDetails{}))
	assert.Nil(t, NextDueDate(&anchor, "fortnightly", model.RecurrenceDetails{}))
}

func TestSeriesEnded(t *testing.T) {
	due := date(2024, 3, 10)

	t.Run("no recurrence means ended", func(t *testing.T) {
		assert.True(t, SeriesEnded(&model.Todo{}))
	})

	t.Run("never", func(t *testing.T) {
		assert.False(t, SeriesEnded(&model.Todo{
			RecurrenceType:    model.RecurrenceDaily,
			RecurrenceEndType: model.RecurrenceEndNever,
		}))
		// An unset end type behaves like never.
		assert.False(t, SeriesEnded(&model.Todo{RecurrenceType: model.RecurrenceDaily}))
	})

	t.Run("occurrences", func(t *testing.T) {
		todo := model.Todo{
			RecurrenceType:     model.RecurrenceDaily,
			RecurrenceEndType:  model.RecurrenceEndOccurrences,
			RecurrenceEndValue: "3",
			RecurrenceCount:    2,
		}
		assert.False(t, SeriesEnded(&todo))
		todo.RecurrenceCount = 3
		assert.True(t, SeriesEnded(&todo))
	})

	t.Run("occurrence limit defaults to one when unparseable", func(t *testing.T) {
		todo := model.Todo{
			RecurrenceType:     model.RecurrenceDaily,
			RecurrenceEndType:  model.RecurrenceEndOccurrences,
			RecurrenceEndValue: "lots",
			RecurrenceCount:    1,
		}
		assert.True(t, SeriesEnded(&todo))
	})

	t.Run("end date", func(t *testing.T) {
		todo := model.Todo{
			RecurrenceType:     model.RecurrenceDaily,
			RecurrenceEndType:  model.RecurrenceEndDate,
			RecurrenceEndValue: "2024-03-11",
			DueDate:            &due,
		}
		assert.False(t, SeriesEnded(&todo), "next occurrence lands exactly on the end date")

		todo.RecurrenceEndValue = "2024-03-10"
		assert.True(t, SeriesEnded(&todo))

		todo.RecurrenceEndValue = "not a date"
		assert.True(t, SeriesEnded(&todo))
	})
}
