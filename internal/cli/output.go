package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/pablasso/todo/internal/task"
)

// row is a task with its 1-based position in the full list, the number the
// done, undone and rm commands accept.
type row struct {
	Position int
	Task     task.Task
}

func printTasks(w io.Writer, rows []row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDONE\tNAME\tDIFFICULTY\tPRIORITY\tUPDATED\tID")

	for _, r := range rows {
		t := r.Task
		done := " "
		if t.Done {
			done = "x"
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%s\t%s\t%s\t%s\t%s\n",
			r.Position,
			done,
			t.Name,
			orDash(string(t.Difficulty)),
			formatPriority(t.Priority),
			formatUpdated(t.UpdatedAt),
			t.ID,
		)
	}

	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatPriority(p int) string {
	if p == 0 {
		return "-"
	}
	return "P" + strconv.Itoa(p)
}

func formatUpdated(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatAge(*t)
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd ago", days)
}
