package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"studyplan/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		task.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	boxChecked   = "[x]"
	boxUnchecked = "[ ]"
)

const longDateLayout = "Monday, January 2, 2006"

func priorityBadge(p task.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return mutedStyle.Render(string(p))
	}
	return style.Render(strings.ToUpper(string(p)))
}

// Sanitize makes user-supplied text inert before it reaches the terminal:
// escape sequences are stripped, line breaks and tabs become spaces and any
// other control character is dropped. Markup such as <script> is left as
// literal text.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// ProgressBar renders a bar of width cells filled to pct percent.
func ProgressBar(pct, width int) string {
	if width < 5 {
		width = 5
	}
	pct = max(0, min(pct, 100))
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
