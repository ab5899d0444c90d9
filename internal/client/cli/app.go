package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/bookmarks/internal/client/client"
	"github.com/dmitrijs2005/bookmarks/internal/client/config"
	"github.com/dmitrijs2005/bookmarks/internal/client/repositories/session"
	"github.com/dmitrijs2005/bookmarks/internal/client/services"
	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/filex"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
)

const sessionDBName = "session.db"

type App struct {
	config   *config.Config
	api      client.Client
	sessions *services.SessionService
	logger   logging.Logger
	db       *sql.DB
	dataDir  string
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp prepares the data directory and local database and builds the API
// client from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, sessionDBName))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	return newApp(c, api, db, dir, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, db *sql.DB, dir string, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		api:      api,
		sessions: services.NewSessionService(api, session.NewSQLiteRepository(db), c.ServerURL, c.Token),
		logger:   logger.With("module", "cli"),
		db:       db,
		dataDir:  dir,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

func (a *App) Close() error {
	return a.db.Close()
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"signup":  {"signup                      create an account and sign in", a.Signup},
		"signin":  {"signin                      sign in and save the session", a.Signin},
		"logout":  {"logout                      revoke the token and forget the session", a.Logout},
		"me":      {"me                          show your profile", a.Me},
		"profile": {"profile [email=] [first=] [last=]  change your profile", a.Profile},
		"add":     {"add [title] [link] [description]  create a bookmark", a.Add},
		"list":    {"list                        list your bookmarks", a.List},
		"get":     {"get <id>                    show one bookmark", a.Get},
		"edit":    {"edit <id> [title=] [link=] [description=]  change a bookmark", a.Edit},
		"delete":  {"delete <id>                 delete a bookmark", a.Delete},
		"export":  {"export [file]               download all bookmarks as JSON", a.Export},
	}
}

// Run executes the subcommand named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.usage()
		return nil
	}
	if args[0] == "shell" {
		return a.Shell(ctx)
	}

	cmd, ok := a.commands()[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	err := cmd.run(ctx, args[1:])
	if errors.Is(err, common.ErrorUnauthorized) {
		// the saved token expired or was revoked
		if ferr := a.sessions.Forget(ctx); ferr != nil {
			a.logger.Warn(ctx, "failed to forget session", "error", ferr)
		}
		return fmt.Errorf("%w: sign in again", err)
	}
	if errors.Is(err, services.ErrNotSignedIn) {
		return fmt.Errorf("%w: run signin or pass -t / %s", err, common.TokenEnvName)
	}
	return err
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: bookmarks [-a server] [-t token] [-d dir] <command> [args]")
	fmt.Fprintln(a.out, "Commands:")
	cmds := a.commands()
	for _, name := range []string{"signup", "signin", "logout", "me", "profile", "add", "list", "get", "edit", "delete", "export"} {
		fmt.Fprintln(a.out, "  "+cmds[name].usage)
	}
	fmt.Fprintln(a.out, "  shell                       interactive mode")
}
