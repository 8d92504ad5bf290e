// Package projection derives read-only views from a task collection. Every
// function is pure and safe to call on each render.
package projection

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"studyplan/internal/task"
)

const (
	All = "all"

	// TimelineLimit caps the number of tasks shown on the timeline.
	TimelineLimit = 5
)

// PriorityFilter is All or one of the task priorities.
type PriorityFilter string

func ParsePriorityFilter(v string) (PriorityFilter, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == All {
		return All, nil
	}
	p, err := task.ParsePriority(v)
	if err != nil {
		return "", err
	}
	return PriorityFilter(p), nil
}

func (f PriorityFilter) match(t task.Task) bool {
	return f == "" || f == All || task.Priority(f) == t.Priority
}

// Next cycles all → high → medium → low → all.
func (f PriorityFilter) Next() PriorityFilter {
	switch f {
	case All, "":
		return PriorityFilter(task.High)
	case PriorityFilter(task.High):
		return PriorityFilter(task.Medium)
	case PriorityFilter(task.Medium):
		return PriorityFilter(task.Low)
	}
	return All
}

type StatusFilter string

const (
	StatusAll       StatusFilter = All
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

func ParseStatusFilter(v string) (StatusFilter, error) {
	switch s := StatusFilter(strings.ToLower(strings.TrimSpace(v))); s {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("status filter %q: want all, pending or completed", v)
}

func (f StatusFilter) match(t task.Task) bool {
	switch f {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	}
	return true
}

// Next cycles all → pending → completed → all.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case StatusAll, "":
		return StatusPending
	case StatusPending:
		return StatusCompleted
	}
	return StatusAll
}

func byDate(a, b task.Task) int { return a.Date.Compare(b.Date) }

// Filtered returns the tasks matching both filters, ordered by date. Tasks
// sharing a date keep their collection order.
func Filtered(tasks []task.Task, pf PriorityFilter, sf StatusFilter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if pf.match(t) && sf.match(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, byDate)
	return out
}

// Bucket groups timeline tasks that share a date.
type Bucket struct {
	Date  task.Date
	Tasks []task.Task
}

// Timeline returns the TimelineLimit earliest incomplete tasks dated today
// or later, grouped by date in ascending order.
func Timeline(tasks []task.Task, today task.Date) []Bucket {
	upcoming := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed && !t.Date.Before(today) {
			upcoming = append(upcoming, t)
		}
	}
	slices.SortStableFunc(upcoming, byDate)
	if len(upcoming) > TimelineLimit {
		upcoming = upcoming[:TimelineLimit]
	}

	var buckets []Bucket
	for _, t := range upcoming {
		if n := len(buckets); n > 0 && buckets[n-1].Date.Equal(t.Date) {
			buckets[n-1].Tasks = append(buckets[n-1].Tasks, t)
			continue
		}
		buckets = append(buckets, Bucket{Date: t.Date, Tasks: []task.Task{t}})
	}
	return buckets
}

// Count returns the number of tasks across all buckets.
func Count(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Tasks)
	}
	return n
}

type Stats struct {
	Total               int
	Completed           int
	Pending             int
	HighPriorityPending int
	// CompletionRate is a whole percentage, 0 for an empty collection.
	CompletionRate int
}

func ComputeStats(tasks []task.Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Pending++
		if t.Priority == task.High {
			s.HighPriorityPending++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
