// Package export serializes the full dataset to one portable JSON
// document and restores it, replacing local state wholesale.
package export

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ptran/checkmate/internal/model"
	"github.com/ptran/checkmate/internal/store"
)

// DocumentVersion is the current export document format version.
const DocumentVersion = 1

// AttachmentPayload is an attachment with its binary content re-encoded
// as a data URI so the document stays plain text.
type AttachmentPayload struct {
	ID        string    `json:"id"`
	TodoID    string    `json:"todoId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	DataURL   string    `json:"dataUrl"`
	ThumbURL  string    `json:"thumbUrl,omitempty"`
}

// VoiceMemoPayload is a voice memo with its audio as a data URI.
type VoiceMemoPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ProjectID   *string   `json:"projectId,omitempty"`
	ShowInInbox bool      `json:"showInInbox"`
	Duration    float64   `json:"duration"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DataURL     string    `json:"dataUrl"`
}

// Document is the portable backup format. Unknown or missing arrays are
// treated as empty on import.
type Document struct {
	Version        int                   `json:"version"`
	ExportedAt     time.Time             `json:"exportedAt"`
	Projects       []model.Project       `json:"projects"`
	Todos          []model.Todo          `json:"todos"`
	Settings       *model.Settings       `json:"settings,omitempty"`
	Attachments    []AttachmentPayload   `json:"attachments"`
	VoiceMemos     []VoiceMemoPayload    `json:"voiceMemos"`
	ChecklistPages []model.ChecklistPage `json:"checklistPages"`
}

// Codec exports the dataset to a Document and imports one back.
type Codec struct {
	store *store.SQLiteStore
}

// NewCodec returns a codec over the given store.
func NewCodec(s *store.SQLiteStore) *Codec {
	return &Codec{store: s}
}

// Export reads the entire dataset, active and archived, into a Document.
func (c *Codec) Export(ctx context.Context) (*Document, error) {
	doc := &Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC(),
	}

	projects, err := c.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting projects: %w", err)
	}
	doc.Projects = projects

	active, err := c.store.ListActiveTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting active todos: %w", err)
	}
	archived, err := c.store.ListArchivedTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting archived todos: %w", err)
	}
	doc.Todos = append(active, archived...)

	settings, err := c.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting settings: %w", err)
	}
	doc.Settings = &settings

	attachments, err := c.store.ListAttachments(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting attachments: %w", err)
	}
	for _, a := range attachments {
		payload := AttachmentPayload{
			ID:        a.ID,
			TodoID:    a.TodoID,
			Name:      a.Name,
			Type:      a.Type,
			CreatedAt: a.CreatedAt,
			DataURL:   encodeDataURL(a.Type, a.Blob),
		}
		if len(a.Thumb) > 0 {
			payload.ThumbURL = encodeDataURL(a.Type, a.Thumb)
		}
		doc.Attachments = append(doc.Attachments, payload)
	}

	memos, err := c.store.ListVoiceMemos(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting voice memos: %w", err)
	}
	for _, m := range memos {
		doc.VoiceMemos = append(doc.VoiceMemos, VoiceMemoPayload{
			ID:          m.ID,
			Title:       m.Title,
			ProjectID:   m.ProjectID,
			ShowInInbox: m.ShowInInbox,
			Duration:    m.Duration,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
			DataURL:     encodeDataURL("audio/webm", m.Blob),
		})
	}

	for _, p := range projects {
		pages, err := c.store.ListChecklistPages(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("exporting checklist pages: %w", err)
		}
		doc.ChecklistPages = append(doc.ChecklistPages, pages...)
	}

	return doc, nil
}

// Import parses data and replaces the local dataset with its contents.
//
// Everything is parsed and every data URI decoded before the destructive
// wipe, so a malformed document aborts with the existing data untouched.
func (c *Codec) Import(ctx context.Context, data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing import document: %w", err)
	}

	attachments := make([]model.Attachment, 0, len(doc.Attachments))
	for _, p := range doc.Attachments {
		blob, err := decodeDataURL(p.DataURL)
		if err != nil {
			return fmt.Errorf("decoding attachment %s: %w", p.ID, err)
		}
		a := model.Attachment{
			ID:        p.ID,
			TodoID:    p.TodoID,
			Name:      p.Name,
			Type:      p.Type,
			Blob:      blob,
			CreatedAt: p.CreatedAt,
		}
		if p.ThumbURL != "" {
			thumb, err := decodeDataURL(p.ThumbURL)
			if err != nil {
				return fmt.Errorf("decoding attachment thumb %s: %w", p.ID, err)
			}
			a.Thumb = thumb
		}
		attachments = append(attachments, a)
	}

	memos := make([]model.VoiceMemo, 0, len(doc.VoiceMemos))
	for _, p := range doc.VoiceMemos {
		blob, err := decodeDataURL(p.DataURL)
		if err != nil {
			return fmt.Errorf("decoding voice memo %s: %w", p.ID, err)
		}
		memos = append(memos, model.VoiceMemo{
			ID:          p.ID,
			Title:       p.Title,
			ProjectID:   p.ProjectID,
			ShowInInbox: p.ShowInInbox,
			Blob:        blob,
			Duration:    p.Duration,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}

	// Parse validated; from here on the replacement is destructive.
	if err := c.store.WipeAll(ctx); err != nil {
		return fmt.Errorf("wiping before import: %w", err)
	}

	for _, p := range doc.Projects {
		if _, err := c.store.PutProject(ctx, p); err != nil {
			return fmt.Errorf("importing project %s: %w", p.ID, err)
		}
	}
	for _, t := range doc.Todos {
		if _, err := c.store.PutTodo(ctx, t); err != nil {
			return fmt.Errorf("importing todo %s: %w", t.ID, err)
		}
	}
	if doc.Settings != nil {
		if err := c.store.PutSettings(ctx, *doc.Settings); err != nil {
			return fmt.Errorf("importing settings: %w", err)
		}
	}
	for _, a := range attachments {
		if _, err := c.store.PutAttachment(ctx, a); err != nil {
			return fmt.Errorf("importing attachment %s: %w", a.ID, err)
		}
	}
	for _, m := range memos {
		if _, err := c.store.PutVoiceMemo(ctx, m); err != nil {
			return fmt.Errorf("importing voice memo %s: %w", m.ID, err)
		}
	}
	for _, page := range doc.ChecklistPages {
		if _, err := c.store.PutChecklistPage(ctx, page); err != nil {
			return fmt.Errorf("importing checklist page %s: %w", page.ID, err)
		}
	}

	return nil
}

// Marshal renders the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export document: %w", err)
	}
	return data, nil
}

// encodeDataURL renders a blob as a base64 data URI.
func encodeDataURL(mimeType string, blob []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(blob)
}

// decodeDataURL parses a base64 data URI back to bytes.
func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("not a data url")
	}
	idx := strings.Index(dataURL, ";base64,")
	if idx < 0 {
		return nil, fmt.Errorf("missing base64 payload")
	}
	blob, err := base64.StdEncoding.DecodeString(dataURL[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return blob, nil
}
