package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/todo/internal/tui/styles"
)

// ListViewport shows a window of rendered rows with a 1-column scrollbar on
// the right. Rows may span several lines; the viewport keeps the selected
// row in view.
type ListViewport struct {
	viewport viewport.Model
	lines    []string
	starts   []int // first line of each row
	width    int   // total width including scrollbar
	height   int
}

// NewListViewport creates a viewport. Width includes the scrollbar column.
func NewListViewport(width, height int) ListViewport {
	vp := viewport.New(max(width-1, 0), height)
	vp.SetContent("")
	return ListViewport{viewport: vp, width: width, height: height}
}

// SetSize updates the dimensions, keeping the current offset when possible.
func (l *ListViewport) SetSize(width, height int) {
	if l.width == width && l.height == height {
		return
	}
	l.width = width
	l.height = height
	l.viewport.Width = max(width-1, 0)
	l.viewport.Height = height
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	l.viewport.SetYOffset(l.viewport.YOffset)
}

// SetRows replaces the content. Each row is a slice of lines.
func (l *ListViewport) SetRows(rows [][]string) {
	lines := make([]string, 0, len(rows))
	starts := make([]int, 0, len(rows))
	for _, row := range rows {
		starts = append(starts, len(lines))
		lines = append(lines, row...)
	}
	l.lines = lines
	l.starts = starts
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	l.viewport.SetYOffset(l.viewport.YOffset)
}

// ShowRow scrolls the minimum amount so every line of row is visible.
func (l *ListViewport) ShowRow(row int) {
	if row < 0 || row >= len(l.starts) {
		return
	}
	first := l.starts[row]
	last := len(l.lines) - 1
	if row+1 < len(l.starts) {
		last = l.starts[row+1] - 1
	}

	top := l.viewport.YOffset
	bottom := top + l.height - 1
	switch {
	case first < top:
		l.viewport.SetYOffset(first)
	case last > bottom:
		l.viewport.SetYOffset(last - l.height + 1)
	}
}

// YOffset returns the first visible line.
func (l ListViewport) YOffset() int {
	return l.viewport.YOffset
}

// View renders the visible lines padded to the content width, followed by
// the scrollbar.
func (l ListViewport) View() string {
	content := strings.Split(l.viewport.View(), "\n")
	bar := scrollbar(l.height, len(l.lines), l.viewport.YOffset)
	contentWidth := max(l.width-1, 0)

	var b strings.Builder
	for i := 0; i < l.height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := ""
		if i < len(content) {
			line = content[i]
		}
		b.WriteString(line)
		if pad := contentWidth - lipgloss.Width(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(bar[i])
	}
	return b.String()
}

// scrollbar returns one cell per visible line. The gutter stays blank until
// the content overflows.
func scrollbar(viewHeight, contentHeight, yOffset int) []string {
	cells := make([]string, viewHeight)
	for i := range cells {
		cells[i] = " "
	}
	if viewHeight <= 0 || contentHeight <= viewHeight {
		return cells
	}

	thumbSize := max(viewHeight*viewHeight/contentHeight, 1)
	maxOffset := contentHeight - viewHeight
	thumbTop := 0
	if maxOffset > 0 {
		thumbTop = yOffset * (viewHeight - thumbSize) / maxOffset
	}
	thumbTop = clamp(thumbTop, 0, viewHeight-thumbSize)

	for i := range cells {
		if i >= thumbTop && i < thumbTop+thumbSize {
			cells[i] = "█"
		} else {
			cells[i] = styles.SubtleStyle.Render("│")
		}
	}
	return cells
}
