package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	active    bool
	completed bool
	split     bool
	limit     int
	offset    int
}

// SetRange sets the window for the all view (for testing).
func (c *ListCmd) SetRange(limit, offset int) {
	c.limit = limit
	c.offset = offset
}

// SetView selects the active, completed or split view (for testing).
func (c *ListCmd) SetView(active, completed, split bool) {
	c.active = active
	c.completed = completed
	c.split = split
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--active | --completed | --split] [--limit <n>] [--offset <n>]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.active, "active", false, "")
	fs.BoolVar(&c.completed, "completed", false, "")
	fs.BoolVar(&c.split, "split", false, "")
	fs.IntVar(&c.limit, "limit", service.DefaultLimit, "")
	fs.IntVar(&c.offset, "offset", service.DefaultOffset, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	views := 0
	for _, set := range []bool{c.active, c.completed, c.split} {
		if set {
			views++
		}
	}
	if views > 1 {
		fmt.Fprintln(errOut, "error: use only one of --active, --completed, --split")
		return exitcode.UserError
	}
	if c.limit < 1 {
		fmt.Fprintf(errOut, "error: invalid limit: %d\n", c.limit)
		return exitcode.UserError
	}
	if c.offset < 0 {
		fmt.Fprintf(errOut, "error: invalid offset: %d\n", c.offset)
		return exitcode.UserError
	}

	if c.split {
		return c.listSplit(ctx, st, out, errOut)
	}

	var tasks []service.Task
	switch {
	case c.active:
		st.FetchActive(ctx)
		tasks = st.Active()
	case c.completed:
		st.FetchCompleted(ctx)
		tasks = st.Completed()
	default:
		st.FetchAllRange(ctx, c.limit, c.offset)
		tasks = st.All()
	}
	if code, failed := reportFetch(errOut, st); failed {
		return code
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	output.FormatTasks(out, tasks)
	return exitcode.Success
}

// listSplit loads the active and completed views and prints them as two
// sections. The error slot is shared, so each fetch is checked before the
// next one starts and clears it.
func (c *ListCmd) listSplit(ctx context.Context, st *store.Store, out, errOut io.Writer) int {
	for _, fetch := range []func(context.Context){st.FetchActive, st.FetchCompleted} {
		fetch(ctx)
		if code, failed := reportFetch(errOut, st); failed {
			return code
		}
	}

	output.FormatSection(out, "Active", st.Active())
	output.FormatSection(out, "Completed", st.Completed())
	return exitcode.Success
}
