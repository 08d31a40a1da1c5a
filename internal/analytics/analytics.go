// Package analytics derives the chart data shown on the analytics screen.
package analytics

import (
	"sort"
	"time"

	"github.com/pablasso/todo/internal/task"
)

// DateLayout is the day key used by CompletedOverTime.
const DateLayout = "2006-01-02"

// Bucket is one bar of a chart.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DifficultyHistogram counts tasks per difficulty. Tasks without a difficulty
// count as low.
func DifficultyHistogram(tasks []task.Task) []Bucket {
	counts := make(map[task.Difficulty]int, len(task.Difficulties))
	for _, t := range tasks {
		d := t.Difficulty
		if d == "" {
			d = task.DifficultyLow
		}
		counts[d]++
	}
	out := make([]Bucket, 0, len(task.Difficulties))
	for _, d := range task.Difficulties {
		out = append(out, Bucket{Label: string(d), Count: counts[d]})
	}
	return out
}

// CompletedOverTime counts done tasks per day of their last update, sorted by day.
// The day is read in the timestamp's own offset. Done tasks without an update
// timestamp are skipped.
func CompletedOverTime(tasks []task.Task) []Bucket {
	counts := make(map[string]int)
	for _, t := range tasks {
		if !t.Done || t.UpdatedAt == nil {
			continue
		}
		counts[t.UpdatedAt.Format(DateLayout)]++
	}
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)

	out := make([]Bucket, 0, len(days))
	for _, d := range days {
		out = append(out, Bucket{Label: d, Count: counts[d]})
	}
	return out
}

// PriorityCount is the number of tasks with a given priority.
type PriorityCount struct {
	Priority int `json:"priority"`
	Count    int `json:"count"`
}

// PriorityCounts counts tasks per priority, lowest first. Tasks without a
// priority count as priority 1.
func PriorityCounts(tasks []task.Task) []PriorityCount {
	counts := make(map[int]int)
	for _, t := range tasks {
		p := t.Priority
		if p == 0 {
			p = task.MinPriority
		}
		counts[p]++
	}
	keys := make([]int, 0, len(counts))
	for p := range counts {
		keys = append(keys, p)
	}
	sort.Ints(keys)

	out := make([]PriorityCount, 0, len(keys))
	for _, p := range keys {
		out = append(out, PriorityCount{Priority: p, Count: counts[p]})
	}
	return out
}

// TotalTimeSpent sums the whole hours between creation and last update of
// every done task, each truncated toward zero. A task updated before it was
// created subtracts. Tasks missing either timestamp contribute nothing.
func TotalTimeSpent(tasks []task.Task) int {
	total := 0
	for _, t := range tasks {
		if !t.Done || t.CreatedAt == nil || t.UpdatedAt == nil {
			continue
		}
		total += int(t.UpdatedAt.Sub(*t.CreatedAt) / time.Hour)
	}
	return total
}

// Summary bundles every analytics computation for one task list.
type Summary struct {
	Total      int             `json:"total"`
	Done       int             `json:"done"`
	Difficulty []Bucket        `json:"difficulty"`
	Completed  []Bucket        `json:"completedByDay"`
	Priority   []PriorityCount `json:"priority"`
	HoursSpent int             `json:"hoursSpent"`
}

// Summarize computes a Summary for tasks.
func Summarize(tasks []task.Task) Summary {
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	return Summary{
		Total:      len(tasks),
		Done:       done,
		Difficulty: DifficultyHistogram(tasks),
		Completed:  CompletedOverTime(tasks),
		Priority:   PriorityCounts(tasks),
		HoursSpent: TotalTimeSpent(tasks),
	}
}

// Max returns the largest count among buckets, used to scale bar charts.
func Max(buckets []Bucket) int {
	m := 0
	for _, b := range buckets {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}
