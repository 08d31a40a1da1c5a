package components

import (
	"strings"
	"testing"

	"github.com/pablasso/todo/internal/analytics"
)

func TestProgress_View(t *testing.T) {
	tests := []struct {
		name       string
		done       int
		total      int
		width      int
		wantPrefix string
		wantSuffix string
	}{
		{name: "zero percent", done: 0, total: 10, width: 8, wantPrefix: "□□□□□□□□", wantSuffix: "0/10 0%"},
		{name: "fifty percent", done: 5, total: 10, width: 8, wantPrefix: "■■■■□□□□", wantSuffix: "5/10 50%"},
		{name: "hundred percent", done: 10, total: 10, width: 8, wantPrefix: "■■■■■■■■", wantSuffix: "10/10 100%"},
		{name: "negative clamps", done: -5, total: 10, width: 8, wantPrefix: "□□□□□□□□", wantSuffix: "0/10 0%"},
		{name: "overflow clamps", done: 15, total: 10, width: 8, wantPrefix: "■■■■■■■■", wantSuffix: "10/10 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewProgress(tt.done, tt.total, tt.width).View()
			if !strings.HasPrefix(result, tt.wantPrefix) {
				t.Errorf("expected prefix %q, got: %s", tt.wantPrefix, result)
			}
			if !strings.HasSuffix(result, tt.wantSuffix) {
				t.Errorf("expected suffix %q, got: %s", tt.wantSuffix, result)
			}
		})
	}
}

func TestProgress_View_Invalid(t *testing.T) {
	if got := NewProgress(5, 0, 8).View(); got != "" {
		t.Errorf("expected empty string for zero total, got: %s", got)
	}
	if got := NewProgress(5, 10, 0).View(); got != "" {
		t.Errorf("expected empty string for zero width, got: %s", got)
	}
}

func TestBarChart_View_ScalesToLargest(t *testing.T) {
	chart := NewBarChart("Difficulty", []analytics.Bucket{
		{Label: "low", Count: 4},
		{Label: "medium", Count: 2},
		{Label: "high", Count: 0},
	}, 8)

	lines := strings.Split(stripANSI(chart.View()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title plus 3 bars, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "Difficulty" {
		t.Errorf("expected title line, got %q", lines[0])
	}
	if strings.Count(lines[1], "■") != 8 {
		t.Errorf("expected full bar for largest bucket, got %q", lines[1])
	}
	if strings.Count(lines[2], "■") != 4 {
		t.Errorf("expected half bar, got %q", lines[2])
	}
	if strings.Count(lines[3], "■") != 0 || !strings.HasSuffix(lines[3], " 0") {
		t.Errorf("expected empty bar with 0 count, got %q", lines[3])
	}
	// labels are padded so bars line up
	if strings.Index(lines[1], "■") != strings.Index(lines[2], "■") {
		t.Errorf("expected aligned bars: %q vs %q", lines[1], lines[2])
	}
}

func TestBarChart_View_SmallCountsStillVisible(t *testing.T) {
	chart := NewBarChart("", []analytics.Bucket{{Label: "a", Count: 100}, {Label: "b", Count: 1}}, 10)
	lines := strings.Split(stripANSI(chart.View()), "\n")

	if strings.Count(lines[1], "■") != 1 {
		t.Errorf("expected a minimal bar for a non-zero count, got %q", lines[1])
	}
}

func TestBarChart_View_Empty(t *testing.T) {
	view := stripANSI(NewBarChart("Completed", nil, 10).View())
	if !strings.Contains(view, "no data yet") {
		t.Errorf("expected placeholder, got %q", view)
	}
}
