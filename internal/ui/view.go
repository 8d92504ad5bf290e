package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studyplan/internal/projection"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Study Planner"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("priority: %s • status: %s", m.priorityFilter, m.statusFilter)))
	b.WriteString("\n")
	if notes := m.renderNotifications(); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	side := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.renderTimeline()),
		panelStyle.Render(m.renderStats()),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(m.renderTaskList()), " ", side))
	b.WriteString("\n")

	if m.mode == modeForm && m.form != nil {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(m.renderForm()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n")
	if len(m.visible) == 0 {
		b.WriteString(mutedStyle.Render("No tasks found. Add a task to get started."))
		return b.String()
	}
	today := m.today()
	for i, t := range m.visible {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = selectedStyle.Render("> ")
		}

		box := mutedStyle.Render(boxUnchecked)
		title := Sanitize(t.Title)
		if t.Completed {
			box = successStyle.Render(boxChecked)
			title = doneStyle.Render(title)
		} else if i == m.cursor && m.mode == modeList {
			title = selectedStyle.Render(title)
		}

		date := t.Date.String()
		switch {
		case t.Completed:
			date = mutedStyle.Render(date)
		case t.Date.Before(today):
			date = errorStyle.Render(date)
		case t.Date.Equal(today):
			date = pendingStyle.Render(date)
		}

		fmt.Fprintf(&b, "%s%s %s %-6s %s\n", cursor, box, date, priorityBadge(t.Priority), title)
		if t.Description != "" {
			fmt.Fprintf(&b, "      %s\n", mutedStyle.Render(Sanitize(t.Description)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTimeline() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Upcoming (%d)", projection.Count(m.timeline))))
	b.WriteString("\n")
	if len(m.timeline) == 0 {
		b.WriteString(mutedStyle.Render("No upcoming tasks."))
		return b.String()
	}
	for i, bucket := range m.timeline {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pendingStyle.Render(bucket.Date.Format(longDateLayout)))
		b.WriteString("\n")
		for _, t := range bucket.Tasks {
			fmt.Fprintf(&b, "  • %s %s\n", Sanitize(t.Title), priorityBadge(t.Priority))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStats() string {
	s := m.stats
	lines := []string{
		titleStyle.Render("Progress"),
		fmt.Sprintf("%s %d", successStyle.Render("Completed:"), s.Completed),
		fmt.Sprintf("%s %d", pendingStyle.Render("Pending:  "), s.Pending),
		fmt.Sprintf("%s %d", errorStyle.Render("High prio:"), s.HighPriorityPending),
		fmt.Sprintf("Completion rate: %d%%", s.CompletionRate),
		mutedStyle.Render(ProgressBar(s.CompletionRate, 20)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.heading()))
	b.WriteString("\n")
	for i, name := range formFields() {
		prefix := " "
		if i == f.index {
			prefix = ">"
		}
		val := f.values[i]
		if i == f.index {
			fmt.Fprintf(&b, "%s %-28s : %s\n", prefix, name, m.input.View())
			continue
		}
		if strings.TrimSpace(val) == "" {
			val = mutedStyle.Render("(empty)")
		} else {
			val = Sanitize(val)
		}
		fmt.Fprintf(&b, "%s %-28s : %s\n", prefix, name, val)
	}
	return strings.TrimRight(b.String(), "\n")
}
