package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/devserver"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/storage"
	"todo/internal/store"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the reference /todo HTTP service.
// Flags override the server section of config.yaml.
type ServeCmd struct {
	addr   string
	driver string
	dsn    string
}

// SetOptions sets the listen address and storage (for testing).
func (c *ServeCmd) SetOptions(addr, driver, dsn string) {
	c.addr = addr
	c.driver = driver
	c.dsn = dsn
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the /todo HTTP service" }
func (c *ServeCmd) Usage() string {
	return "todo serve [--addr <addr>] [--driver memory|sqlite3|mysql] [--dsn <dsn>]"
}
func (c *ServeCmd) NeedsStore() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.driver, "driver", "", "")
	fs.StringVar(&c.dsn, "dsn", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	addr := firstNonEmpty(c.addr, cfg.Server.Addr)
	driver := firstNonEmpty(c.driver, cfg.Server.Driver)
	dsn := firstNonEmpty(c.dsn, cfg.Server.DSN)

	backing, err := openStorage(ctx, driver, dsn)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer backing.Close()

	srv := devserver.New(backing,
		devserver.WithLogger(logging.New(errOut, cfg.Debug)),
		devserver.WithToken(cfg.Server.Token),
	)

	if !cfg.Quiet {
		fmt.Fprintf(out, "serving %s on %s (%s)\n", devserver.BasePath, addr, driver)
	}
	if err := srv.Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: server failed: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

func openStorage(ctx context.Context, driver, dsn string) (storage.Storage, error) {
	if driver == "" || driver == "memory" {
		return storage.NewMemory(), nil
	}
	if dsn == "" {
		return nil, fmt.Errorf("--dsn required for driver %s", driver)
	}
	db, err := storage.OpenSQL(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
