package model

import (
	"strconv"
	"time"
)

// Project type constants.
const (
	ProjectTypeDefault   = "default"
	ProjectTypeChecklist = "checklist"
)

// Project is a grouping container for related todos. Projects form a tree
// via ParentID; deletion walks children explicitly.
type Project struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Type     string  `json:"type" db:"type"`
	ParentID *string `json:"parent_id,omitempty" db:"parent_id"`

	// SortOrder is the sibling ordering key. Numeric values are preferred
	// but legacy databases carry string and date values, so it is kept as
	// text and compared numerically when both sides parse.
	SortOrder string `json:"sort_order" db:"sort_order"`

	ShowInInbox    bool `json:"show_in_inbox" db:"show_in_inbox"`
	Protected      bool `json:"protected" db:"protected"`
	UseSuggestions bool `json:"use_suggestions" db:"use_suggestions"`
	EnableQtyUnits bool `json:"enable_qty_units" db:"enable_qty_units"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CompareSortOrder orders two sort keys numerically when both parse as
// numbers, falling back to plain string comparison for legacy values.
func CompareSortOrder(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ChecklistPage subdivides a checklist-type project's items. Pages are
// owned by their project and deleted with it.
type ChecklistPage struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Name      string    `json:"name" db:"name"`
	Order     int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
