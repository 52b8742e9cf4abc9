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
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todo done <id>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, st, args, true, out, errOut)
}

// UndoCmd implements the undo command, reopening a completed task.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a task active again" }
func (c *UndoCmd) Usage() string     { return "todo undo <id>" }
func (c *UndoCmd) NeedsStore() bool  { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, st, args, false, out, errOut)
}

// runSetCompleted is the shared implementation for done and undo.
func runSetCompleted(ctx context.Context, cfg *config.Config, st *store.Store, args []string, completed bool, out, errOut io.Writer) int {
	id, ok := taskID(args)
	if !ok {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}

	updated, err := st.Apply(ctx, id, service.UpdateTask{Completed: service.Set(completed)})
	if err != nil {
		return reportFailure(errOut, st, id, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, updated)
	}
	return exitcode.Success
}
