package model

import "time"

// Attachment is a binary payload owned by a todo. The blob is immutable
// once written; attachments are deleted together with their todo.
type Attachment struct {
	ID     string `json:"id" db:"id"`
	TodoID string `json:"todo_id" db:"todo_id"`
	Name   string `json:"name" db:"name"`

	// Type is the MIME type of the payload.
	Type string `json:"type" db:"type"`

	Blob  []byte `json:"-" db:"blob"`
	Thumb []byte `json:"-" db:"thumb"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// VoiceMemo is a recorded audio note, optionally attached to a project.
type VoiceMemo struct {
	ID          string  `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	ProjectID   *string `json:"project_id,omitempty" db:"project_id"`
	ShowInInbox bool    `json:"show_in_inbox" db:"show_in_inbox"`

	Blob     []byte  `json:"-" db:"blob"`
	Duration float64 `json:"duration" db:"duration"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
