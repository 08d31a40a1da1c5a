package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpen_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todo.log")
	logger, closeFn, err := Open(path, "info")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("rolled back", "policy", "snapshot")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "rolled back") || !strings.Contains(out, "policy=snapshot") {
		t.Errorf("expected info record in log, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record should be filtered, got %q", out)
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	logger, closeFn, err := Open("", "loud")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	logger.Info("nothing")
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}
