package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studyplan/internal/reminder"
	"studyplan/internal/task"
)

type level int

const (
	levelSuccess level = iota
	levelInfo
	levelError
)

type notification struct {
	id    int
	level level
	text  string
}

type reminderTickMsg struct {
	now time.Time
}

type dismissMsg struct {
	id int
}

// notify queues a transient banner and returns the command that removes it
// once the TTL has passed.
func (m *Model) notify(lv level, text string) tea.Cmd {
	m.nextNoteID++
	id := m.nextNoteID
	m.notes = append(m.notes, notification{id: id, level: lv, text: text})
	return tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return dismissMsg{id: id}
	})
}

func (m *Model) dismiss(id int) {
	for i, n := range m.notes {
		if n.id == id {
			m.notes = append(m.notes[:i:i], m.notes[i+1:]...)
			return
		}
	}
}

// handleReminder runs a reminder check for the day of now. The timeline is
// recomputed too since "today" may have rolled over.
func (m Model) handleReminder(now time.Time) (tea.Model, tea.Cmd) {
	m.recompute()
	notices := reminder.Check(m.store.Tasks(), task.DateOf(now))
	cmds := make([]tea.Cmd, 0, len(notices))
	for _, n := range notices {
		icon := "📚"
		if n.Kind == reminder.Upcoming {
			icon = "🔔"
		}
		cmds = append(cmds, m.notify(levelInfo, icon+" "+n.Message))
		m.logger.Debug("reminder shown", "kind", n.Kind.String(), "tasks", len(n.Tasks))
	}
	return m, tea.Batch(cmds...)
}

func renderNotification(n notification) string {
	var fg, bg string
	switch n.level {
	case levelError:
		fg, bg = "#ffffff", "#ef4444"
	case levelInfo:
		fg, bg = "#ffffff", "#3b82f6"
	default:
		fg, bg = "#ffffff", "#10b981"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Bold(true).
		Padding(0, 1).
		Render(Sanitize(n.text))
}

func (m Model) renderNotifications() string {
	if len(m.notes) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(m.notes))
	for _, n := range m.notes {
		rendered = append(rendered, renderNotification(n))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}
