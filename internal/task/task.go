package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

var ErrInvalidPriority = errors.New("priority must be low, medium or high")

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{Low, Medium, High}
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("%q: %w", v, ErrInvalidPriority)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

// Rank orders priorities; unknown values rank below Low.
func (p Priority) Rank() int {
	switch p {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	}
	return 0
}

// Bump moves p by delta steps, clamped to [Low, High].
func (p Priority) Bump(delta int) Priority {
	all := Priorities()
	idx := p.Rank() - 1 + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(all) {
		idx = len(all) - 1
	}
	return all[idx]
}

// Task is a single study item. Field names in JSON match the stored format.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        Date      `json:"date"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Draft holds the user-editable fields of a task.
type Draft struct {
	Title       string
	Description string
	Date        Date
	Priority    Priority
}

// DraftOf returns the editable fields of t.
func DraftOf(t Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Priority:    t.Priority,
	}
}
