package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ptran/checkmate/internal/export"
	"github.com/ptran/checkmate/internal/lifecycle"
	"github.com/ptran/checkmate/internal/model"
	"github.com/ptran/checkmate/internal/order"
	"github.com/ptran/checkmate/internal/store"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	metaStyle     = lipgloss.NewStyle().Faint(true)
	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "config file path")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "initializing logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(flag.Args(), *configPath, logger); err != nil {
		fmt.Fprintln(os.Stderr, "checkmate:", err)
		os.Exit(1)
	}
}

func run(args []string, configPath string, logger *zap.Logger) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath, store.WithLogger(logger))
	if err != nil {
		return err
	}
	defer st.Close()

	engine := lifecycle.NewEngine(st,
		lifecycle.WithRetention(time.Duration(cfg.RetentionHours)*time.Hour),
		lifecycle.WithLogger(logger),
	)

	ctx := context.Background()

	// Every invocation is a navigation tick: archive stale completed
	// todos and purge the bin before doing anything else.
	if err := engine.Sweep(ctx); err != nil {
		logger.Warn("lifecycle sweep failed", zap.Error(err))
	}

	command := "list"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "list":
		return listTodos(ctx, st)
	case "add":
		return addTodo(ctx, st, args)
	case "complete":
		return completeTodo(ctx, st, engine, args)
	case "delete":
		return deleteTodo(ctx, st, args)
	case "export":
		return exportData(ctx, st, args)
	case "import":
		return importData(ctx, st, args)
	case "wipe":
		return st.WipeAll(ctx)
	default:
		return fmt.Errorf("unknown command %q (expected list, add, complete, delete, export, import, wipe)", command)
	}
}

// listTodos prints the inbox: projectless todos plus project todos
// flagged for the inbox, due today or earlier.
func listTodos(ctx context.Context, st *store.SQLiteStore) error {
	todos, err := st.ListActiveTodos(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	visible := todos[:0]
	for _, t := range todos {
		if t.ProjectID != nil && !t.ShowInInbox {
			continue
		}
		if !lifecycle.VisibleNow(&t, now) {
			continue
		}
		visible = append(visible, t)
	}
	order.Sort(visible)

	if len(visible) == 0 {
		fmt.Println(metaStyle.Render("nothing in the inbox"))
		return nil
	}

	fmt.Println(titleStyle.Render("Inbox"))
	for _, t := range visible {
		line := fmt.Sprintf("%s %s", priorityBadge(t.Priority), t.Title)
		if t.Completed {
			line = doneStyle.Render(line)
		}
		if t.DueDate != nil {
			line += " " + metaStyle.Render(t.DueDate.Format("2006-01-02"))
		}
		fmt.Println("  " + line)
	}
	return nil
}

func priorityBadge(priority string) string {
	if priority == model.PriorityUrgent {
		return urgentStyle.Render("[!]")
	}
	return priorityStyle.Render("[" + priority + "]")
}

func addTodo(ctx context.Context, st *store.SQLiteStore, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	priority := fs.String("priority", model.PriorityP2, "priority: urgent, p0, p1, p2, p3")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: checkmate add [-priority p2] <title>")
	}

	todo := model.Todo{Title: fs.Arg(0), Priority: *priority}
	todo, err := order.NewEngine(st).PlaceAtEnd(ctx, todo, nil)
	if err != nil {
		return err
	}
	stored, err := st.PutTodo(ctx, todo)
	if err != nil {
		return err
	}
	fmt.Println("added", stored.ID)
	return nil
}

func completeTodo(ctx context.Context, st *store.SQLiteStore, engine *lifecycle.Engine, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: checkmate complete <id>")
	}
	todo, err := st.GetTodo(ctx, args[0])
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	todo.Completed = true
	todo.CompletedAt = &now
	if _, err := st.PutTodo(ctx, *todo); err != nil {
		return err
	}

	next, err := engine.SpawnNext(ctx, *todo)
	if err != nil {
		return err
	}
	if next != nil {
		fmt.Println("next occurrence due", next.DueDate.Format("2006-01-02"))
	}
	return nil
}

// deleteTodo soft-deletes: the todo moves to the bin, where it stays
// until a later sweep purges it.
func deleteTodo(ctx context.Context, st *store.SQLiteStore, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: checkmate delete <id>")
	}
	todo, err := st.GetTodo(ctx, args[0])
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(todo)
	if err != nil {
		return err
	}
	if _, err := st.PutBinEntry(ctx, model.BinEntry{
		Kind: model.BinKindTodo,
		Item: snapshot,
	}); err != nil {
		return err
	}
	return st.DeleteTodo(ctx, todo.ID)
}

func exportData(ctx context.Context, st *store.SQLiteStore, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: checkmate export <file>")
	}
	doc, err := export.NewCodec(st).Export(ctx)
	if err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(args[0], data, 0o644)
}

func importData(ctx context.Context, st *store.SQLiteStore, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: checkmate import <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return export.NewCodec(st).Import(ctx, data)
}
