package views

import (
	"fmt"
	"strings"

	"github.com/pablasso/todo/internal/analytics"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui/components"
	"github.com/pablasso/todo/internal/tui/styles"
)

// RenderAnalytics renders the charts of the analytics tab for tasks.
func RenderAnalytics(tasks []task.Task, width int) string {
	s := analytics.Summarize(tasks)
	barWidth := width / 3
	if barWidth < 10 {
		barWidth = 10
	}

	priority := make([]analytics.Bucket, len(s.Priority))
	for i, p := range s.Priority {
		priority[i] = analytics.Bucket{Label: fmt.Sprintf("P%d", p.Priority), Count: p.Count}
	}

	sections := []string{
		components.NewBarChart("Difficulty histogram", s.Difficulty, barWidth).View(),
		components.NewBarChart("Tasks completed over time", s.Completed, barWidth).View(),
		components.NewBarChart("Tasks per priority", priority, barWidth).View(),
		styles.SectionStyle.Render("Total time spent") + "\n  " + fmt.Sprintf("%d hours", s.HoursSpent),
	}
	if s.Total > 0 {
		sections = append(sections, styles.SectionStyle.Render("Completion")+"\n  "+components.NewProgress(s.Done, s.Total, barWidth).View())
	}

	return strings.Join(sections, "\n\n")
}
