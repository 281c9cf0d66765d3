package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptran/checkmate/internal/model"
)

func TestReopenAppliesNoFurtherMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkmate.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	todo, err := s.PutTodo(ctx, model.Todo{Title: "Survives reopen"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survives reopen", got.Title)

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, migrations[len(migrations)-1].version, version)
}

func TestSentinelBackfillRewritesLegacyNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkmate.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)

	// A row the way a pre-sentinel database stored it.
	now := time.Now().UTC()
	_, err = s.db.Exec(`
		INSERT INTO todos (id, title, project_id, created_at, updated_at)
		VALUES ('legacy-1', 'Old inbox todo', NULL, ?, ?)`, now, now)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	var persisted string
	require.NoError(t, s.db.Get(&persisted,
		"SELECT project_id FROM todos WHERE id = 'legacy-1'"))
	assert.Equal(t, InboxSentinel, persisted)

	// The sentinel stays an internal detail.
	got, err := s.GetTodo(ctx, "legacy-1")
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
}

func TestSentinelNeverCollidesWithGeneratedIDs(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	// The exact sentinel value is part of the persisted format; changing
	// it would orphan every existing inbox todo.
	assert.Equal(t, "__inbox__", InboxSentinel)

	project, err := s.PutProject(context.Background(), model.Project{Name: "Real project"})
	require.NoError(t, err)
	assert.NotEqual(t, InboxSentinel, project.ID)
}
