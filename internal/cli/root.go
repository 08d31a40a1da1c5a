// Package cli implements the scripted todo commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/logging"
	"github.com/pablasso/todo/internal/service"
	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/version"
)

// interactive reports whether forms may prompt on the terminal.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// app carries what every command needs once flags are parsed.
type app struct {
	configFile string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	storage  *session.Storage
}

// NewRootCmd builds the todo command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "Manage your tasks from the terminal",
		Long: `todo keeps a list of tasks on the todo API server.

Run without arguments to open the interactive interface, or use the
subcommands below from scripts.`,
		Version:            version.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	AddConfigFlags(root.PersistentFlags(), &a.configFile)

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newDoneCmd(a, true),
		newDoneCmd(a, false),
		newRemoveCmd(a),
		newStatsCmd(a),
		newVersionCmd(),
	)
	return root
}

// AddConfigFlags registers the flags that override configuration values.
func AddConfigFlags(fs *pflag.FlagSet, configFile *string) {
	fs.StringVar(configFile, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.yaml)")
	fs.String(config.KeyAPIURL, "", "API base URL (default "+config.DefaultAPIURL+")")
	fs.Duration(config.KeyTimeout, 0, "request timeout (default "+config.DefaultTimeout.String()+")")
	fs.String(config.KeyLogFile, "", "append logs to this file")
	fs.String(config.KeyLogLevel, "", "log level: debug|info|warn|error")
	fs.String(config.KeyRollback, "", "undo strategy for failed updates: snapshot|journal")
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitcode.For(err)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{File: a.configFile, Flags: cmd.Flags()})
	if err != nil {
		return exitcode.User(err)
	}
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return exitcode.User(err)
	}

	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	a.storage = session.NewStorage(cfg.CredentialPath())
	logger.Debug("command start", "cmd", cmd.CommandPath(), "api", cfg.APIURL)
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

// client returns an API client using credential.
func (a *app) client(credential string) *api.Client {
	c := api.NewClient(a.cfg.APIURL, credential)
	c.HTTPClient.Timeout = a.cfg.Timeout
	c.Logger = a.logger
	return c
}

// authedClient returns a client using the stored credential.
func (a *app) authedClient() (*api.Client, error) {
	cred, err := a.storage.Load()
	if errors.Is(err, session.ErrNoCredential) {
		return nil, exitcode.Auth(errors.New("not logged in; run 'todo login' first"))
	}
	if err != nil {
		return nil, err
	}
	return a.client(cred.Token), nil
}

// service returns a task service whose store holds the server's current list.
func (a *app) service(ctx context.Context) (*service.Service, error) {
	client, err := a.authedClient()
	if err != nil {
		return nil, err
	}
	svc := service.New(a.newStore(), client)
	if err := svc.Refresh(ctx); err != nil {
		return nil, a.checkAuth(err)
	}
	return svc, nil
}

// checkAuth drops the stored credential when the server rejected it.
func (a *app) checkAuth(err error) error {
	if !api.IsUnauthorized(err) {
		return err
	}
	if rmErr := a.storage.Remove(); rmErr != nil {
		a.logger.Warn("failed to remove rejected credential", "err", rmErr)
	}
	return exitcode.Auth(fmt.Errorf("session expired; run 'todo login' again: %w", err))
}
