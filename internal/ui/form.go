package ui

import (
	"errors"
	"fmt"
	"strings"

	"studyplan/internal/task"
)

type formKind int

const (
	formCreate formKind = iota
	formEdit
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDate
	fieldPriority
	fieldCount
)

var errPastDate = errors.New("date cannot be before today")

// formState holds the raw field values while a task is being created or
// edited. One text input is shared and swapped between fields.
type formState struct {
	kind   formKind
	taskID string
	values [fieldCount]string
	index  int
}

func formFields() []string {
	return []string{"title", "description", "date (YYYY-MM-DD)", "priority (low/medium/high)"}
}

func newCreateForm(today task.Date) *formState {
	f := &formState{kind: formCreate}
	f.values[fieldDate] = today.String()
	f.values[fieldPriority] = string(task.Medium)
	return f
}

func newEditForm(t task.Task) *formState {
	f := &formState{kind: formEdit, taskID: t.ID}
	f.values[fieldTitle] = t.Title
	f.values[fieldDescription] = t.Description
	f.values[fieldDate] = t.Date.String()
	f.values[fieldPriority] = string(t.Priority)
	return f
}

func (f formState) currentLabel() string {
	return formFields()[f.index]
}

func (f formState) currentValue() string {
	return f.values[f.index]
}

func (f *formState) setCurrentValue(v string) {
	f.values[f.index] = v
}

func (f formState) heading() string {
	if f.kind == formEdit {
		return "Edit task"
	}
	return "New task"
}

// draft parses the form. New tasks may not be dated in the past; edits keep
// whatever date the task already had.
func (f formState) draft(today task.Date) (task.Draft, error) {
	title := strings.TrimSpace(f.values[fieldTitle])
	if title == "" {
		return task.Draft{}, errors.New("title cannot be empty")
	}
	date, err := task.ParseDate(f.values[fieldDate])
	if err != nil {
		return task.Draft{}, err
	}
	if date.IsZero() {
		return task.Draft{}, errors.New("date cannot be empty")
	}
	if f.kind == formCreate && date.Before(today) {
		return task.Draft{}, fmt.Errorf("%s: %w", date, errPastDate)
	}
	priority, err := task.ParsePriority(f.values[fieldPriority])
	if err != nil {
		return task.Draft{}, err
	}
	return task.Draft{
		Title:       title,
		Description: strings.TrimSpace(f.values[fieldDescription]),
		Date:        date,
		Priority:    priority,
	}, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
