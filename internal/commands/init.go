package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
)

func init() {
	Register(&InitCmd{})
}

// InitCmd writes a default config.yaml.
type InitCmd struct {
	force bool
}

// SetForce allows overwriting an existing file (for testing).
func (c *InitCmd) SetForce(force bool) {
	c.force = force
}

func (c *InitCmd) Name() string      { return "init" }
func (c *InitCmd) Aliases() []string { return nil }
func (c *InitCmd) Synopsis() string  { return "Write a default config.yaml" }
func (c *InitCmd) Usage() string     { return "todo init [--force]" }
func (c *InitCmd) NeedsStore() bool  { return false }

func (c *InitCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *InitCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if cfg.HasConfigFile() && !c.force {
		fmt.Fprintf(errOut, "error: config already exists: %s (use --force to overwrite)\n", cfg.ConfigPath())
		return exitcode.UserError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.UserError
	}
	if err := config.WriteDefault(cfg.ConfigPath()); err != nil {
		fmt.Fprintf(errOut, "error: failed to write config: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", cfg.ConfigPath())
	}
	return exitcode.Success
}
