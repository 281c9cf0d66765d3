package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptran/checkmate/internal/model"
	"github.com/ptran/checkmate/internal/store"
	"github.com/ptran/checkmate/tests/testutil"
)

func TestPutTodoInboxSentinelRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	stored, err := s.PutTodo(ctx, model.Todo{Title: "Buy milk"})
	require.NoError(t, err)
	require.NotEmpty(t, stored.ID)
	assert.Nil(t, stored.ProjectID)

	got, err := s.GetTodo(ctx, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID, "inbox todos must read back as nil, never the sentinel")

	todos, err := s.ListActiveTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Nil(t, todos[0].ProjectID)

	// The inbox is addressable as a bucket via nil.
	inbox, err := s.ListTodosByProject(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func TestPutTodoStampsUpdatedAt(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	stored, err := s.PutTodo(ctx, model.Todo{Title: "First"})
	require.NoError(t, err)

	first := stored.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	stored.Notes = "edited"
	again, err := s.PutTodo(ctx, stored)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(first))
	assert.Equal(t, stored.CreatedAt, again.CreatedAt)
}

func TestPutTodoRejectsEmptyTitle(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.PutTodo(context.Background(), model.Todo{Title: "   "})
	require.Error(t, err)
}

func TestListTodosByProjectSeparatesBuckets(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	project, err := s.PutProject(ctx, model.Project{Name: "Groceries"})
	require.NoError(t, err)

	_, err = s.PutTodo(ctx, model.Todo{Title: "Inbox item"})
	require.NoError(t, err)
	_, err = s.PutTodo(ctx, model.Todo{Title: "Project item", ProjectID: &project.ID})
	require.NoError(t, err)

	inbox, err := s.ListTodosByProject(ctx, nil)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Inbox item", inbox[0].Title)

	owned, err := s.ListTodosByProject(ctx, &project.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Project item", owned[0].Title)
	require.NotNil(t, owned[0].ProjectID)
	assert.Equal(t, project.ID, *owned[0].ProjectID)
}

func TestListActiveExcludesArchived(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.PutTodo(ctx, model.Todo{Title: "Active"})
	require.NoError(t, err)
	_, err = s.PutTodo(ctx, model.Todo{Title: "Archived", Archived: true})
	require.NoError(t, err)

	active, err := s.ListActiveTodos(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Title)

	archived, err := s.ListArchivedTodos(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "Archived", archived[0].Title)
}

func TestDeleteTodoCascadesToAttachments(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.PutTodo(ctx, model.Todo{Title: "With files"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.PutAttachment(ctx, model.Attachment{
			TodoID: todo.ID,
			Name:   "photo.jpg",
			Type:   "image/jpeg",
			Blob:   []byte{0xff, 0xd8, byte(i)},
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteTodo(ctx, todo.ID))

	_, err = s.GetTodo(ctx, todo.ID)
	require.Error(t, err)

	left, err := s.ListAttachmentsForTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestDeleteTodoRefusesProtected(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.PutTodo(ctx, model.Todo{Title: "Keep me", Protected: true})
	require.NoError(t, err)

	err = s.DeleteTodo(ctx, todo.ID)
	require.ErrorIs(t, err, store.ErrProtected)

	_, err = s.GetTodo(ctx, todo.ID)
	require.NoError(t, err)
}

func TestRecurrenceDetailsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	stored, err := s.PutTodo(ctx, model.Todo{
		Title:          "Standup",
		RecurrenceType: model.RecurrenceWeekly,
		RecurrenceDetails: model.RecurrenceDetails{
			Days: []int{1, 3, 5},
		},
		RecurrenceEndType:  model.RecurrenceEndOccurrences,
		RecurrenceEndValue: "10",
		SeriesID:           "series-1",
	})
	require.NoError(t, err)

	got, err := s.GetTodo(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, got.RecurrenceDetails.Days)
	assert.Equal(t, "series-1", got.SeriesID)

	series, err := s.ListTodosBySeries(ctx, "series-1")
	require.NoError(t, err)
	assert.Len(t, series, 1)
}

func TestPutTodoUpdateKeepsAttachments(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	todo, err := s.PutTodo(ctx, model.Todo{Title: "Renovate kitchen"})
	require.NoError(t, err)

	att, err := s.PutAttachment(ctx, model.Attachment{
		TodoID: todo.ID,
		Name:   "plan.pdf",
		Type:   "application/pdf",
		Blob:   []byte("blueprint"),
	})
	require.NoError(t, err)

	// Editing the todo must not disturb its attachments: an upsert that
	// replaced the row would cascade the delete onto them.
	todo.Notes = "measure twice"
	_, err = s.PutTodo(ctx, todo)
	require.NoError(t, err)

	atts, err := s.ListAttachmentsForTodo(ctx, todo.ID)
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Equal(t, att.ID, atts[0].ID)
	assert.Equal(t, []byte("blueprint"), atts[0].Blob)

	// Several updates in a row, as archiving and reordering produce.
	todo.Completed = true
	_, err = s.PutTodo(ctx, todo)
	require.NoError(t, err)
	todo.Order = 5
	_, err = s.PutTodo(ctx, todo)
	require.NoError(t, err)

	atts, err = s.ListAttachmentsForTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Len(t, atts, 1)
}
