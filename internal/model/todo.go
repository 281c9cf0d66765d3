package model

import "time"

// Priority levels, highest first. Stored as text.
const (
	PriorityUrgent = "urgent"
	PriorityP0     = "p0"
	PriorityP1     = "p1"
	PriorityP2     = "p2"
	PriorityP3     = "p3"
)

// PriorityRank maps a priority to its sort rank. Urgent sorts before
// everything; unknown values sink to the bottom.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return -1
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	default:
		return 99
	}
}

// Recurrence type constants. An empty type means the todo does not repeat.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Recurrence end-condition constants.
const (
	RecurrenceEndNever       = "never"
	RecurrenceEndDate        = "date"
	RecurrenceEndOccurrences = "occurrences"
)

// Monthly/yearly recurrence kinds: repeat on a fixed day of the month, or
// on the Nth occurrence of a weekday.
const (
	RecurrenceKindDate    = "date"
	RecurrenceKindWeekday = "weekday"
)

// RecurrenceDetails is the variant payload attached to a recurring todo.
// Which fields are meaningful depends on the todo's RecurrenceType:
// weekly reads Days; monthly reads Kind plus Day or Weekday/WeekdayOrdinal;
// yearly additionally reads Month. Persisted as JSON in a TEXT column.
type RecurrenceDetails struct {
	// Days are target weekdays for weekly recurrence, 0=Sunday..6=Saturday.
	Days []int `json:"days,omitempty"`

	// Kind discriminates monthly/yearly recurrence: "date" or "weekday".
	Kind string `json:"kind,omitempty"`

	// Day is the day of month for Kind "date".
	Day int `json:"day,omitempty"`

	// Month is the target month (1-12) for yearly recurrence.
	Month int `json:"month,omitempty"`

	// Weekday and WeekdayOrdinal select the Nth weekday of the month
	// for Kind "weekday". WeekdayOrdinal is 1-indexed.
	Weekday        int `json:"weekday,omitempty"`
	WeekdayOrdinal int `json:"weekdayOrdinal,omitempty"`
}

// Todo is a single task item. A nil ProjectID means the todo lives in the
// Inbox; the store persists that as a sentinel value but callers only ever
// see nil.
type Todo struct {
	ID        string     `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Notes     string     `json:"notes" db:"notes"`
	Priority  string     `json:"priority" db:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	Completed bool       `json:"completed" db:"completed"`

	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ProjectID   *string    `json:"project_id,omitempty" db:"project_id"`

	Archived              bool       `json:"archived" db:"archived"`
	ArchivedAt            *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	ArchivedFromProjectID *string    `json:"archived_from_project_id,omitempty" db:"archived_from_project_id"`

	// ShowInInbox surfaces a project-owned todo in the Inbox as well.
	ShowInInbox bool `json:"show_in_inbox" db:"show_in_inbox"`

	// Order is the manual rank within the todo's (project, priority) bucket.
	Order int `json:"sort_order" db:"sort_order"`

	// Protected blocks delete and archive.
	Protected bool `json:"protected" db:"protected"`

	RecurrenceType     string            `json:"recurrence_type,omitempty" db:"recurrence_type"`
	RecurrenceDetails  RecurrenceDetails `json:"recurrence_details,omitempty" db:"-"`
	RecurrenceEndType  string            `json:"recurrence_end_type,omitempty" db:"recurrence_end_type"`
	RecurrenceEndValue string            `json:"recurrence_end_value,omitempty" db:"recurrence_end_value"`
	RecurrenceCount    int               `json:"recurrence_count" db:"recurrence_count"`

	// SeriesID groups successive instances of one recurring task.
	SeriesID            string `json:"series_id,omitempty" db:"series_id"`
	IsRecurringInstance bool   `json:"is_recurring_instance" db:"is_recurring_instance"`

	// PageID places the todo on a page of a checklist-type project.
	PageID *string `json:"page_id,omitempty" db:"page_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Recurring reports whether the todo has a recurrence rule attached.
func (t *Todo) Recurring() bool {
	return t.RecurrenceType != ""
}
