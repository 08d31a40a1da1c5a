package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/pablasso/todo/internal/analytics"
	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
)

const statsBarWidth = 30

func newStatsCmd(a *app) *cobra.Command {
	var since string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task analytics",
		Long: `Show the difficulty histogram, tasks completed per day, tasks per
priority and the total time spent on finished tasks.

--since accepts a date (2024-05-01) or a phrase such as "last week" and
limits the report to tasks updated since then.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cutoff time.Time
			if since != "" {
				t, err := parseSince(since, time.Now())
				if err != nil {
					return exitcode.User(err)
				}
				cutoff = t
			}

			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			tasks := updatedSince(svc.Store().Tasks(), cutoff)
			summary := analytics.Summarize(tasks)

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, summary)
			}
			fmt.Fprintln(out, renderStats(summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "only count tasks updated since this date")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

// parseSince accepts an ISO date or a natural-language time relative to now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(analytics.DateLayout, strings.TrimSpace(s), time.UTC); err == nil {
		return t, nil
	}

	if t, ok := relativeSince(s, now); ok {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, errors.New("invalid --since: expected a date like 2024-05-01 or a phrase like \"last week\"")
	}
	return r.Time, nil
}

var agoPattern = regexp.MustCompile(`^(\d+)\s+(day|week|month|year)s?\s+ago$`)

// relativeSince resolves the phrases the natural-language parser has no rule
// for, such as "last week", plus the common "N days ago" forms.
func relativeSince(s string, now time.Time) (time.Time, bool) {
	phrase := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	switch phrase {
	case "today":
		return now, true
	case "yesterday":
		return now.AddDate(0, 0, -1), true
	}
	if unit, ok := strings.CutPrefix(phrase, "last "); ok {
		return shiftBack(now, 1, unit)
	}
	if m := agoPattern.FindStringSubmatch(phrase); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return shiftBack(now, n, m[2])
	}
	return time.Time{}, false
}

func shiftBack(now time.Time, n int, unit string) (time.Time, bool) {
	switch unit {
	case "day":
		return now.AddDate(0, 0, -n), true
	case "week":
		return now.AddDate(0, 0, -7*n), true
	case "month":
		return now.AddDate(0, -n, 0), true
	case "year":
		return now.AddDate(-n, 0, 0), true
	}
	return time.Time{}, false
}

// updatedSince keeps tasks last touched at or after cutoff. Tasks without
// timestamps are dropped unless cutoff is zero.
func updatedSince(tasks []task.Task, cutoff time.Time) []task.Task {
	if cutoff.IsZero() {
		return tasks
	}
	var out []task.Task
	for _, t := range tasks {
		stamp := t.UpdatedAt
		if stamp == nil {
			stamp = t.CreatedAt
		}
		if stamp != nil && !stamp.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

func renderStats(s analytics.Summary) string {
	priority := make([]analytics.Bucket, len(s.Priority))
	for i, p := range s.Priority {
		priority[i] = analytics.Bucket{Label: fmt.Sprintf("P%d", p.Priority), Count: p.Count}
	}

	sections := []string{
		fmt.Sprintf("Tasks: %d (%d done)", s.Total, s.Done),
		components.NewBarChart("Difficulty histogram", s.Difficulty, statsBarWidth).View(),
		components.NewBarChart("Tasks completed over time", s.Completed, statsBarWidth).View(),
		components.NewBarChart("Tasks per priority", priority, statsBarWidth).View(),
		fmt.Sprintf("Total time spent: %d hours", s.HoursSpent),
	}
	return strings.Join(sections, "\n\n")
}
