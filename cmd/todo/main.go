package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/cli"
	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/logging"
	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/tui"
	"github.com/pablasso/todo/internal/version"
)

func main() {
	args := os.Args[1:]

	// A leading command routes to the CLI; otherwise launch the TUI
	if isCommand(args) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		code := cli.Execute(ctx, args, os.Stdout, os.Stderr)
		stop()
		os.Exit(code)
	}
	os.Exit(runTUI(args))
}

func runTUI(args []string) int {
	res, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitcode.UserError
	}
	if res.ShowHelp {
		fmt.Print(res.HelpText)
		return exitcode.Success
	}
	if res.ShowVersion {
		fmt.Println(version.String())
		return exitcode.Success
	}

	cfg, err := config.Load(config.Options{File: res.ConfigFile, Flags: res.Flags})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitcode.UserError
	}
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	if err := tui.Run(tuiOptions(cfg, logger)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitcode.For(err)
	}
	return exitcode.Success
}

func tuiOptions(cfg *config.Config, logger *slog.Logger) tui.Options {
	client := api.NewClient(cfg.APIURL, "")
	client.HTTPClient.Timeout = cfg.Timeout

	return tui.Options{
		Client:   client,
		Storage:  session.NewStorage(cfg.CredentialPath()),
		Rollback: cfg.Rollback,
		Logger:   logger,
	}
}
