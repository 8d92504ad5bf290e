package reminder

import (
	"fmt"
	"strings"

	"studyplan/internal/task"
)

type Kind int

const (
	DueToday Kind = iota
	Upcoming
)

func (k Kind) String() string {
	switch k {
	case DueToday:
		return "due-today"
	case Upcoming:
		return "upcoming"
	}
	return "unknown"
}

// UpcomingDays is how many days after today count as "coming up".
const UpcomingDays = 2

// Notice is one combined reminder produced by a check.
type Notice struct {
	Kind    Kind
	Tasks   []task.Task
	Message string
}

// Check scans tasks for incomplete items due today and in the next
// UpcomingDays days. It returns at most one notice of each kind, due-today
// first. A task lands in at most one notice since the date windows do not
// overlap.
func Check(tasks []task.Task, today task.Date) []Notice {
	var due, upcoming []task.Task
	last := today.AddDays(UpcomingDays)
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		switch {
		case t.Date.Equal(today):
			due = append(due, t)
		case t.Date.After(today) && !t.Date.After(last):
			upcoming = append(upcoming, t)
		}
	}

	var notices []Notice
	if len(due) > 0 {
		titles := make([]string, 0, len(due))
		for _, t := range due {
			titles = append(titles, t.Title)
		}
		notices = append(notices, Notice{
			Kind:    DueToday,
			Tasks:   due,
			Message: fmt.Sprintf("Reminder: You have %d task(s) due today! %s", len(due), strings.Join(titles, ", ")),
		})
	}
	if len(upcoming) > 0 {
		notices = append(notices, Notice{
			Kind:    Upcoming,
			Tasks:   upcoming,
			Message: fmt.Sprintf("You have %d task(s) coming up in the next %d days!", len(upcoming), UpcomingDays),
		})
	}
	return notices
}
