package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptran/checkmate/internal/model"
	"github.com/ptran/checkmate/tests/testutil"
)

func TestGetSettingsReturnsDefaultsWhenAbsent(t *testing.T) {
	s := testutil.NewTestStore(t)

	settings, err := s.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	custom := model.Settings{
		Theme:          "dark",
		CompressImages: false,
		VoiceQuality:   "high",
	}
	require.NoError(t, s.PutSettings(ctx, custom))

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.False(t, got.CompressImages)
	assert.Equal(t, "high", got.VoiceQuality)
	assert.Equal(t, model.SettingsID, got.ID)
}

func TestBinRoundTripAndOrdering(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	snapshot, err := json.Marshal(model.Todo{ID: "t1", Title: "Deleted"})
	require.NoError(t, err)

	older, err := s.PutBinEntry(ctx, model.BinEntry{
		Kind:      model.BinKindTodo,
		Item:      snapshot,
		DeletedAt: time.Now().UTC().Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	newer, err := s.PutBinEntry(ctx, model.BinEntry{Kind: model.BinKindProject})
	require.NoError(t, err)

	entries, err := s.ListBin(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, older.ID, entries[0].ID, "bin lists oldest first")
	assert.Equal(t, newer.ID, entries[1].ID)

	var restored model.Todo
	require.NoError(t, json.Unmarshal(entries[0].Item, &restored))
	assert.Equal(t, "Deleted", restored.Title)

	require.NoError(t, s.DeleteBinEntry(ctx, older.ID))
	entries, err = s.ListBin(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestVoiceMemoInboxListing(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	project, err := s.PutProject(ctx, model.Project{Name: "Ideas"})
	require.NoError(t, err)

	_, err = s.PutVoiceMemo(ctx, model.VoiceMemo{Title: "Loose", Blob: []byte{1}})
	require.NoError(t, err)
	_, err = s.PutVoiceMemo(ctx, model.VoiceMemo{
		Title: "Shared", ProjectID: &project.ID, ShowInInbox: true, Blob: []byte{2},
	})
	require.NoError(t, err)
	_, err = s.PutVoiceMemo(ctx, model.VoiceMemo{
		Title: "Hidden", ProjectID: &project.ID, Blob: []byte{3},
	})
	require.NoError(t, err)

	inbox, err := s.ListVoiceMemosForInbox(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	for _, memo := range inbox {
		assert.NotEqual(t, "Hidden", memo.Title)
	}

	owned, err := s.ListVoiceMemosByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestChecklistPageDeleteDetachesTodos(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	project, err := s.PutProject(ctx, model.Project{Name: "Packing", Type: model.ProjectTypeChecklist})
	require.NoError(t, err)
	page, err := s.PutChecklistPage(ctx, model.ChecklistPage{ProjectID: project.ID, Name: "Clothes"})
	require.NoError(t, err)

	todo, err := s.PutTodo(ctx, model.Todo{Title: "Socks", ProjectID: &project.ID, PageID: &page.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteChecklistPage(ctx, page.ID))

	got, err := s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PageID)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, project.ID, *got.ProjectID, "todo stays in the project")
}

func TestWipeAllClearsEveryCollection(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.PutTodo(ctx, model.Todo{Title: "Gone soon"})
	require.NoError(t, err)
	_, err = s.PutAttachment(ctx, model.Attachment{TodoID: todo.ID, Blob: []byte{1}})
	require.NoError(t, err)
	_, err = s.PutProject(ctx, model.Project{Name: "Gone too"})
	require.NoError(t, err)
	require.NoError(t, s.PutSettings(ctx, model.Settings{Theme: "dark"}))

	require.NoError(t, s.WipeAll(ctx))

	todos, err := s.ListActiveTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	attachments, err := s.ListAttachments(ctx)
	require.NoError(t, err)
	assert.Empty(t, attachments)

	// Settings fall back to defaults after a wipe.
	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}
