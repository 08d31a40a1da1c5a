package main

import (
	"strings"
	"testing"
	"time"

	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/store"
)

func TestParseArgs_NoArgs(t *testing.T) {
	res, err := parseArgs(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.ShowHelp {
		t.Fatalf("expected ShowHelp=false")
	}
	if res.ShowVersion {
		t.Fatalf("expected ShowVersion=false")
	}
	if res.Flags == nil {
		t.Fatalf("expected parsed flag set")
	}
}

func TestParseArgs_Version(t *testing.T) {
	for _, arg := range []string{"--version", "-v"} {
		res, err := parseArgs([]string{arg})
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", arg, err)
		}
		if !res.ShowVersion {
			t.Fatalf("%s: expected ShowVersion=true", arg)
		}
	}
}

func TestParseArgs_Help(t *testing.T) {
	res, err := parseArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.ShowHelp {
		t.Fatalf("expected ShowHelp=true")
	}
	if !strings.Contains(res.HelpText, "Usage: todo") {
		t.Fatalf("expected usage in help text, got %q", res.HelpText)
	}
	if !strings.Contains(res.HelpText, "--api-url") {
		t.Fatalf("expected --api-url in help text")
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	_, err := parseArgs([]string{"--demo"})
	if err == nil {
		t.Fatalf("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "Usage: todo") {
		t.Fatalf("expected usage in error, got %v", err)
	}
}

func TestParseArgs_PositionalAfterFlags(t *testing.T) {
	_, err := parseArgs([]string{"--api-url", "http://example.com", "list"})
	if err == nil {
		t.Fatalf("expected error for positional args")
	}
	if !strings.Contains(err.Error(), "todo list") {
		t.Fatalf("expected hint naming the command, got %v", err)
	}
}

func TestParseArgs_FlagsOverrideConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	res, err := parseArgs([]string{"--api-url", "http://example.com/", "--timeout", "3s", "--rollback", "journal"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg, err := config.Load(config.Options{File: res.ConfigFile, Flags: res.Flags})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIURL != "http://example.com" {
		t.Fatalf("expected api url from flag, got %q", cfg.APIURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected timeout 3s, got %s", cfg.Timeout)
	}
	if cfg.Rollback != store.RollbackJournal {
		t.Fatalf("expected journal rollback, got %s", cfg.Rollback)
	}

	opts := tuiOptions(cfg, nil)
	if opts.Client.BaseURL != "http://example.com" {
		t.Fatalf("expected client base url, got %q", opts.Client.BaseURL)
	}
	if opts.Client.HTTPClient.Timeout != 3*time.Second {
		t.Fatalf("expected client timeout 3s, got %s", opts.Client.HTTPClient.Timeout)
	}
	if opts.Storage.Path() != cfg.CredentialPath() {
		t.Fatalf("expected credential path %q, got %q", cfg.CredentialPath(), opts.Storage.Path())
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--api-url", "x"}, false},
		{[]string{"-v"}, false},
		{[]string{"list"}, true},
		{[]string{"add", "--name", "x"}, true},
	}
	for _, tt := range tests {
		if got := isCommand(tt.args); got != tt.want {
			t.Errorf("isCommand(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
