package model

import (
	"encoding/json"
	"time"
)

// Bin entry kinds.
const (
	BinKindTodo      = "todo"
	BinKindProject   = "project"
	BinKindVoiceMemo = "voice_memo"
)

// BinEntry is a soft-deleted item snapshot held for a retention window
// before being purged permanently.
type BinEntry struct {
	ID   string `json:"id" db:"id"`
	Kind string `json:"kind" db:"kind"`

	// Item is the serialized snapshot of the deleted entity.
	Item json.RawMessage `json:"item" db:"item"`

	DeletedAt time.Time `json:"deleted_at" db:"deleted_at"`
}
