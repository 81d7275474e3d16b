// Package commands implements the ecolife CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"ecolife-backend/internal/logger"
	"ecolife-backend/internal/productivity"

	"go.uber.org/zap"
)

// sessionUser is passed to the store as the user id. The server identifies the user
// from the bearer token, so any non-empty value works.
const sessionUser = "me"

type Options struct {
	API     string
	Token   string
	Verbose bool
}

// DefaultOptions reads ECOLIFE_API and ECOLIFE_TOKEN.
func DefaultOptions() *Options {
	api := os.Getenv("ECOLIFE_API")
	if api == "" {
		api = "http://localhost:4000"
	}
	return &Options{
		API:   api,
		Token: os.Getenv("ECOLIFE_TOKEN"),
	}
}

// openStore loads the signed-in user's record into a fresh client store.
func openStore(ctx context.Context, opts *Options) (*productivity.Store, error) {
	if opts.Token == "" {
		return nil, errors.New("not signed in: pass --token or set ECOLIFE_TOKEN (see 'ecolife login')")
	}
	zapLogger := zap.NewNop()
	if opts.Verbose {
		l, err := logger.New("console", true)
		if err != nil {
			return nil, fmt.Errorf("initialize logger: %w", err)
		}
		zapLogger = l
	}
	store := productivity.NewStore(
		productivity.NewHTTPRecords(opts.API, opts.Token, nil),
		productivity.WithLogger(zapLogger),
	)
	if err := store.Load(ctx, sessionUser); err != nil {
		return nil, err
	}
	return store, nil
}

func printSnapshot(out io.Writer, snap productivity.Snapshot) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "GOALS")
	if len(snap.Goals) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, g := range snap.Goals {
		fmt.Fprintf(tw, "  %s\t%s\t%d%%\t%s\t%s\n", g.ID, g.Title, g.Progress, g.TargetDate, g.Category)
	}

	fmt.Fprintln(tw, "TASKS")
	if len(snap.Tasks) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, t := range snap.Tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "  %s\t%s %s\t%s\t%s\n", t.ID, mark, t.Title, t.Priority, t.Category)
	}

	fmt.Fprintln(tw, "HABITS")
	if len(snap.Habits) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, h := range snap.Habits {
		fmt.Fprintf(tw, "  %s\t%s\t%d day streak\t%s\n", h.ID, h.Name, h.Streak, h.Description)
	}
	return tw.Flush()
}

// requireID fails when id is not among the listed ids, since the store treats an
// unknown id as a no-op.
func requireID(kind, id string, ids []string) error {
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return fmt.Errorf("no %s with id %s", kind, id)
}

func taskIDs(snap productivity.Snapshot) []string {
	ids := make([]string, len(snap.Tasks))
	for i, t := range snap.Tasks {
		ids[i] = t.ID
	}
	return ids
}

func goalIDs(snap productivity.Snapshot) []string {
	ids := make([]string, len(snap.Goals))
	for i, g := range snap.Goals {
		ids[i] = g.ID
	}
	return ids
}

func habitIDs(snap productivity.Snapshot) []string {
	ids := make([]string, len(snap.Habits))
	for i, h := range snap.Habits {
		ids[i] = h.ID
	}
	return ids
}
