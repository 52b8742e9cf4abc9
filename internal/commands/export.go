package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/export"
	"todo/internal/service"
	"todo/internal/store"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	path   string
	limit  int
}

// SetOptions sets the format, output path and limit (for testing).
func (c *ExportCmd) SetOptions(format, path string, limit int) {
	c.format = format
	c.path = path
	c.limit = limit
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as json, csv or pdf" }
func (c *ExportCmd) Usage() string {
	return "todo export [--format json|csv|pdf] [--out <path>] [--limit <n>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", export.FormatJSON, "")
	fs.StringVar(&c.path, "out", "", "")
	fs.StringVar(&c.path, "o", "", "")
	fs.IntVar(&c.limit, "limit", service.DefaultLimit, "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if !export.Supported(c.format) {
		fmt.Fprintf(errOut, "error: unknown format: %s\n", c.format)
		return exitcode.UserError
	}
	if c.limit < 1 {
		fmt.Fprintf(errOut, "error: invalid limit: %d\n", c.limit)
		return exitcode.UserError
	}

	st.FetchAllRange(ctx, c.limit, service.DefaultOffset)
	if code, failed := reportFetch(errOut, st); failed {
		return code
	}

	w := out
	if c.path != "" {
		f, err := os.Create(c.path)
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to create %s: %v\n", c.path, err)
			return exitcode.UserError
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, c.format, st.All()); err != nil {
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.UserError
	}

	if c.path != "" && !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", c.path)
	}
	return exitcode.Success
}
