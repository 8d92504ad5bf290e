package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplan/internal/task"
)

var today = task.NewDate(2026, time.October, 18)

func mk(id string, offset int, p task.Priority, done bool) task.Task {
	return task.Task{ID: id, Title: id, Date: today.AddDays(offset), Priority: p, Completed: done}
}

func ids(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func sample() []task.Task {
	return []task.Task{
		mk("c", 3, task.Low, false),
		mk("a", 0, task.High, false),
		mk("b", -2, task.Medium, true),
		mk("d", 0, task.High, true),
		mk("e", 1, task.Medium, false),
	}
}

func TestFilteredAllReturnsEverythingByDate(t *testing.T) {
	got := Filtered(sample(), All, StatusAll)
	assert.Equal(t, []string{"b", "a", "d", "e", "c"}, ids(got))
}

func TestFilteredCombinesFilters(t *testing.T) {
	tests := []struct {
		name string
		pf   PriorityFilter
		sf   StatusFilter
		want []string
	}{
		{"high only", PriorityFilter(task.High), StatusAll, []string{"a", "d"}},
		{"pending only", All, StatusPending, []string{"a", "e", "c"}},
		{"completed only", All, StatusCompleted, []string{"b", "d"}},
		{"high and pending", PriorityFilter(task.High), StatusPending, []string{"a"}},
		{"low and completed", PriorityFilter(task.Low), StatusCompleted, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filtered(sample(), tt.pf, tt.sf)))
		})
	}
}

func TestFilteredDoesNotReorderInput(t *testing.T) {
	in := sample()
	_ = Filtered(in, All, StatusAll)
	assert.Equal(t, sample(), in)
}

func TestTimelineGroupsAndLimits(t *testing.T) {
	tasks := []task.Task{
		mk("late", 9, task.Low, false),
		mk("t1", 0, task.Low, false),
		mk("past", -1, task.High, false),
		mk("done", 0, task.High, true),
		mk("t2", 0, task.Medium, false),
		mk("n1", 1, task.Low, false),
		mk("n2", 2, task.Low, false),
		mk("n3", 2, task.Low, false),
		mk("n4", 4, task.Low, false),
	}
	buckets := Timeline(tasks, today)

	require.Len(t, buckets, 3)
	assert.Equal(t, today, buckets[0].Date)
	assert.Equal(t, []string{"t1", "t2"}, ids(buckets[0].Tasks))
	assert.Equal(t, []string{"n1"}, ids(buckets[1].Tasks))
	assert.Equal(t, []string{"n2", "n3"}, ids(buckets[2].Tasks))
	assert.Equal(t, TimelineLimit, Count(buckets))
}

func TestTimelineInvariants(t *testing.T) {
	var tasks []task.Task
	for i := -5; i < 20; i++ {
		tasks = append(tasks, mk(string(rune('A'+i+5)), i, task.Medium, i%3 == 0))
	}
	buckets := Timeline(tasks, today)
	assert.LessOrEqual(t, Count(buckets), TimelineLimit)

	var prev task.Date
	for _, b := range buckets {
		assert.True(t, prev.IsZero() || b.Date.After(prev), "buckets ascend")
		prev = b.Date
		for _, tk := range b.Tasks {
			assert.False(t, tk.Completed)
			assert.False(t, tk.Date.Before(today))
			assert.True(t, tk.Date.Equal(b.Date))
		}
	}
}

func TestTimelineEmpty(t *testing.T) {
	assert.Empty(t, Timeline(nil, today))
	assert.Empty(t, Timeline([]task.Task{mk("old", -1, task.Low, false)}, today))
}

func TestStats(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))

	s := ComputeStats(sample())
	assert.Equal(t, Stats{
		Total:               5,
		Completed:           2,
		Pending:             3,
		HighPriorityPending: 1,
		CompletionRate:      40,
	}, s)

	third := ComputeStats([]task.Task{
		mk("x", 0, task.Low, true),
		mk("y", 0, task.Low, false),
		mk("z", 0, task.Low, false),
	})
	assert.Equal(t, 33, third.CompletionRate)

	twoThirds := ComputeStats([]task.Task{
		mk("x", 0, task.Low, true),
		mk("y", 0, task.Low, true),
		mk("z", 0, task.Low, false),
	})
	assert.Equal(t, 67, twoThirds.CompletionRate)
}

func TestFilterParsingAndCycling(t *testing.T) {
	pf, err := ParsePriorityFilter("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityFilter(task.High), pf)
	_, err = ParsePriorityFilter("urgent")
	assert.Error(t, err)

	sf, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, StatusAll, sf)
	_, err = ParseStatusFilter("archived")
	assert.Error(t, err)

	seen := []PriorityFilter{All}
	for f := PriorityFilter(All).Next(); f != All; f = f.Next() {
		seen = append(seen, f)
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, StatusAll, StatusAll.Next().Next().Next())
}
