package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/analytics"
	"github.com/pablasso/todo/internal/tui/styles"
)

const (
	filledChar = "■"
	emptyChar  = "□"
)

// Progress renders the share of completed tasks like: ■■■■□□□□ 2/4 50%
type Progress struct {
	Done  int
	Total int
	Width int // character width of the bar portion
}

// NewProgress creates a new Progress instance.
func NewProgress(done, total, width int) Progress {
	return Progress{
		Done:  done,
		Total: total,
		Width: width,
	}
}

// View returns the rendered progress bar string.
func (p Progress) View() string {
	if p.Total <= 0 || p.Width <= 0 {
		return ""
	}

	done := clamp(p.Done, 0, p.Total)
	percent := (done * 100) / p.Total
	filled := (done * p.Width) / p.Total

	bar := strings.Repeat(filledChar, filled) + strings.Repeat(emptyChar, p.Width-filled)
	return fmt.Sprintf("%s %d/%d %d%%", bar, done, p.Total, percent)
}

// BarChart renders one horizontal bar per bucket, scaled to the largest count:
//
//	low     ■■■■■■■■ 4
//	medium  ■■ 1
type BarChart struct {
	Title   string
	Buckets []analytics.Bucket
	Width   int // width of the longest bar
}

// NewBarChart creates a chart.
func NewBarChart(title string, buckets []analytics.Bucket, width int) BarChart {
	return BarChart{Title: title, Buckets: buckets, Width: width}
}

// View returns the rendered chart. Charts without data show a placeholder.
func (c BarChart) View() string {
	var b strings.Builder
	if c.Title != "" {
		b.WriteString(styles.SectionStyle.Render(c.Title))
		b.WriteString("\n")
	}

	if len(c.Buckets) == 0 {
		b.WriteString(styles.SubtleStyle.Render("  no data yet"))
		return b.String()
	}

	labelWidth := 0
	for _, bucket := range c.Buckets {
		if w := lipgloss.Width(bucket.Label); w > labelWidth {
			labelWidth = w
		}
	}
	largest := analytics.Max(c.Buckets)

	for i, bucket := range c.Buckets {
		if i > 0 {
			b.WriteString("\n")
		}
		n := 0
		if largest > 0 && c.Width > 0 {
			n = bucket.Count * c.Width / largest
			if bucket.Count > 0 && n == 0 {
				n = 1
			}
		}
		label := bucket.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(bucket.Label))
		fmt.Fprintf(&b, "  %s  %s %d", label, styles.SelectedStyle.Render(strings.Repeat(filledChar, n)), bucket.Count)
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
