// Package lifecycle implements the time-based rules: auto-archive of
// stale completed todos, bin expiry, and recurring-instance spawning.
// Nothing here runs on a timer; the embedding UI calls Sweep on every
// navigation, which keeps the core free of background scheduling.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ptran/checkmate/internal/model"
	"github.com/ptran/checkmate/internal/store"
)

// DefaultRetention is the window after which completed todos are archived
// and bin entries are purged.
const DefaultRetention = 24 * time.Hour

// Repository is the slice of the store the engine needs.
type Repository interface {
	ListActiveTodos(ctx context.Context) ([]model.Todo, error)
	ListTodosBySeries(ctx context.Context, seriesID string) ([]model.Todo, error)
	PutTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	ListBin(ctx context.Context) ([]model.BinEntry, error)
	DeleteBinEntry(ctx context.Context, id string) error
}

// Engine applies the time-based rules against a repository.
type Engine struct {
	repo      Repository
	retention time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// EngineOption customizes an engine at construction time.
type EngineOption func(*Engine)

// WithRetention overrides the archive/purge window.
func WithRetention(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.retention = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger attaches a logger for sweep summaries.
func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine returns a lifecycle engine over the given repository.
func NewEngine(repo Repository, opts ...EngineOption) *Engine {
	e := &Engine{
		repo:      repo,
		retention: DefaultRetention,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sweep runs the navigation-tick maintenance: archive stale completed
// todos, then purge expired bin entries. It finishes before the caller
// renders, so the user never sees a stale-then-corrected view.
func (e *Engine) Sweep(ctx context.Context) error {
	if err := e.AutoArchive(ctx); err != nil {
		return err
	}
	return e.PurgeBin(ctx)
}

// AutoArchive moves todos completed longer than the retention window ago
// into the archive, remembering the project they came from so restore can
// put them back. Protected todos are left alone.
func (e *Engine) AutoArchive(ctx context.Context) error {
	todos, err := e.repo.ListActiveTodos(ctx)
	if err != nil {
		return err
	}

	now := e.now().UTC()
	cutoff := now.Add(-e.retention)
	archived := 0
	for _, todo := range todos {
		if !todo.Completed || todo.CompletedAt == nil || todo.Protected {
			continue
		}
		if !todo.CompletedAt.Before(cutoff) {
			continue
		}
		todo.Archived = true
		todo.ArchivedAt = &now
		todo.ArchivedFromProjectID = todo.ProjectID
		if _, err := e.repo.PutTodo(ctx, todo); err != nil {
			return err
		}
		archived++
	}

	if archived > 0 {
		e.log.Info("auto-archived stale todos", zap.Int("count", archived))
	}
	return nil
}

// PurgeBin permanently deletes bin entries older than the retention
// window. This is the only path that destroys data without explicit
// confirmation; it runs only as a side effect of navigation sweeps.
func (e *Engine) PurgeBin(ctx context.Context) error {
	entries, err := e.repo.ListBin(ctx)
	if err != nil {
		return err
	}

	cutoff := e.now().UTC().Add(-e.retention)
	purged := 0
	for _, entry := range entries {
		if !entry.DeletedAt.Before(cutoff) {
			continue
		}
		if err := e.repo.DeleteBinEntry(ctx, entry.ID); err != nil {
			return err
		}
		purged++
	}

	if purged > 0 {
		e.log.Info("purged expired bin entries", zap.Int("count", purged))
	}
	return nil
}

// SpawnNext creates the successor of a just-completed recurring todo.
//
// The successor is always persisted, whatever its due date, but is only
// returned when it is due today or earlier. Future instances stay
// invisible until their day arrives because every listing already filters
// on "due today or past" — that filter doubles as the visibility gate, so
// no background scheduler is needed.
//
// Returns (nil, nil) when the series has no next occurrence or the end
// condition leaves no room for another instance.
func (e *Engine) SpawnNext(ctx context.Context, completed model.Todo) (*model.Todo, error) {
	if !completed.Recurring() {
		return nil, nil
	}

	anchor := completed.DueDate
	if anchor == nil {
		anchor = &completed.CreatedAt
	}
	next := NextDueDate(anchor, completed.RecurrenceType, completed.RecurrenceDetails)
	if next == nil {
		return nil, nil
	}

	switch completed.RecurrenceEndType {
	case model.RecurrenceEndOccurrences:
		if completed.RecurrenceCount+1 > maxOccurrences(completed.RecurrenceEndValue) {
			return nil, nil
		}
	case model.RecurrenceEndDate:
		end, err := time.ParseInLocation(dateLayout, completed.RecurrenceEndValue, time.Local)
		if err != nil || next.After(localMidnight(end)) {
			return nil, nil
		}
	}

	seriesID := completed.SeriesID
	if seriesID == "" {
		seriesID = completed.ID
	}

	instance := completed
	instance.ID = uuid.New().String()
	instance.Completed = false
	instance.CompletedAt = nil
	instance.Archived = false
	instance.ArchivedAt = nil
	instance.ArchivedFromProjectID = nil
	instance.DueDate = next
	instance.RecurrenceCount = completed.RecurrenceCount + 1
	instance.SeriesID = seriesID
	instance.IsRecurringInstance = true
	instance.CreatedAt = time.Time{}

	stored, err := e.repo.PutTodo(ctx, instance)
	if err != nil {
		return nil, err
	}

	if next.After(localMidnight(e.now())) {
		return nil, nil
	}
	return &stored, nil
}

// VisibleNow reports whether a todo should surface in listings: anything
// without a due date, or due today or earlier. This is the filter that
// doubles as the visibility gate for future recurring instances.
func VisibleNow(todo *model.Todo, now time.Time) bool {
	if todo.DueDate == nil {
		return true
	}
	return !localMidnight(*todo.DueDate).After(localMidnight(now))
}

// EndSeries deletes every active (non-completed) todo of a recurrence
// series. Protected instances survive.
func (e *Engine) EndSeries(ctx context.Context, seriesID string) error {
	if seriesID == "" {
		return nil
	}
	todos, err := e.repo.ListTodosBySeries(ctx, seriesID)
	if err != nil {
		return err
	}
	for _, todo := range todos {
		if todo.Completed || todo.Archived {
			continue
		}
		if err := e.repo.DeleteTodo(ctx, todo.ID); err != nil {
			if errors.Is(err, store.ErrProtected) {
				continue
			}
			return err
		}
	}
	return nil
}
