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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	done bool
}

// SetDone marks the next created task as completed (for testing).
func (c *AddCmd) SetDone(done bool) {
	c.done = done
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add [--done] <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.done, "done", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	t, ok := title(args)
	if !ok {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	in := service.CreateTask{Title: t}
	if c.done {
		in.Completed = service.Set(true)
	}

	created, err := st.Add(ctx, in)
	if err != nil {
		return reportFailure(errOut, st, "", err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, created)
	}
	return exitcode.Success
}
