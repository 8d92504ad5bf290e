package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyplan/internal/config"
	"studyplan/internal/storage"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

var now = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

func today() task.Date { return task.DateOf(now) }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	return newTestModelWith(t, config.Default())
}

func newTestModelWith(t *testing.T, cfg config.Config) (Model, *store.Store) {
	t.Helper()
	slot, err := storage.OpenDir(t.TempDir())
	require.NoError(t, err)
	st := store.New(slot,
		store.WithClock(func() time.Time { return now }),
		store.WithLogger(discard()),
	)
	st.Load(context.Background())

	m := New(context.Background(), st, cfg, Options{
		Clock:           clockwork.NewFakeClockAt(now),
		NotificationTTL: time.Second,
		Logger:          discard(),
	})
	return m, st
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	space     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	clearLine = tea.KeyMsg{Type: tea.KeyCtrlU}
	ctrlC     = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func addTask(t *testing.T, st *store.Store, title string, date task.Date, p task.Priority) task.Task {
	t.Helper()
	tk, err := st.Add(context.Background(), task.Draft{Title: title, Date: date, Priority: p})
	require.NoError(t, err)
	return tk
}

func TestAddTaskThroughForm(t *testing.T) {
	m, st := newTestModel(t)

	m, _ = send(t, m, runes("a"))
	require.Equal(t, modeForm, m.mode)

	// The date field is prefilled with today.
	m, _ = send(t, m,
		runes("Read Ch.1"), enter,
		runes("intro chapter"), enter,
		enter,
		clearLine, runes("high"), enter,
	)
	assert.Equal(t, modeList, m.mode)

	tasks := st.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Read Ch.1", tasks[0].Title)
	assert.Equal(t, "intro chapter", tasks[0].Description)
	assert.Equal(t, today(), tasks[0].Date)
	assert.Equal(t, task.High, tasks[0].Priority)

	assert.Equal(t, 1, m.stats.Pending)
	assert.Equal(t, 1, m.stats.HighPriorityPending)
	require.Len(t, m.notes, 1)
	assert.Equal(t, "Task added successfully!", m.notes[0].text)
}

func TestCreateFormRejectsPastDate(t *testing.T) {
	m, st := newTestModel(t)

	m, _ = send(t, m, runes("a"), runes("Old"), enter, enter,
		clearLine, runes(today().AddDays(-1).String()), enter, enter)

	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.status, "before today")
	assert.Empty(t, st.Tasks())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.form)
}

func TestEditFormIsPrepopulated(t *testing.T) {
	m, st := newTestModel(t)
	tk := addTask(t, st, "Essay", today().AddDays(3), task.Low)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m.recompute()

	m, _ = send(t, m, runes("e"))
	require.NotNil(t, m.form)
	assert.Equal(t, "Essay", m.input.Value())
	assert.Equal(t, tk.Date.String(), m.form.values[fieldDate])

	m, _ = send(t, m, runes(" draft"), enter, enter, enter, enter)
	got, ok := st.Get(tk.ID)
	require.True(t, ok)
	assert.Equal(t, "Essay draft", got.Title)
	assert.Equal(t, tk.Date, got.Date)
	assert.Equal(t, modeList, m.mode)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, st := newTestModel(t)
	addTask(t, st, "Flashcards", today(), task.Medium)
	m.recompute()

	m, _ = send(t, m, runes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	m, _ = send(t, m, runes("n"))
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, st.Tasks(), 1)

	m, _ = send(t, m, runes("d"), runes("y"))
	assert.Empty(t, st.Tasks())
	assert.Empty(t, m.visible)
	assert.Equal(t, "Deleted task", m.status)
}

func TestToggleTwiceRestores(t *testing.T) {
	m, st := newTestModel(t)
	tk := addTask(t, st, "Lab report", today(), task.Low)
	m.recompute()

	m, _ = send(t, m, space)
	got, _ := st.Get(tk.ID)
	assert.True(t, got.Completed)
	assert.Equal(t, 100, m.stats.CompletionRate)

	m, _ = send(t, m, space)
	got, _ = st.Get(tk.ID)
	assert.False(t, got.Completed)
	assert.Equal(t, 0, m.stats.CompletionRate)
	assert.Len(t, m.notes, 2)
}

func TestFiltersCycle(t *testing.T) {
	m, st := newTestModel(t)
	addTask(t, st, "High one", today(), task.High)
	addTask(t, st, "Low one", today(), task.Low)
	m.recompute()
	require.Len(t, m.visible, 2)

	m, _ = send(t, m, runes("p"))
	require.Len(t, m.visible, 1)
	assert.Equal(t, "High one", m.visible[0].Title)

	m, _ = send(t, m, runes("p"), runes("p"), runes("p"))
	assert.Len(t, m.visible, 2)

	m, _ = send(t, m, runes("s"), runes("s"))
	assert.Empty(t, m.visible)
}

func TestReminderTickShowsNotices(t *testing.T) {
	m, st := newTestModel(t)
	addTask(t, st, "Read Ch.1", today(), task.High)
	addTask(t, st, "Problem set", today().AddDays(1), task.Medium)
	m.recompute()

	m, cmd := send(t, m, reminderTickMsg{now: now})
	require.NotNil(t, cmd)
	require.Len(t, m.notes, 2)
	assert.Contains(t, m.notes[0].text, "Read Ch.1")
	assert.Contains(t, m.notes[1].text, "1 task(s) coming up")

	m, _ = send(t, m, dismissMsg{id: m.notes[0].id})
	require.Len(t, m.notes, 1)
	assert.Contains(t, m.notes[0].text, "coming up")

	// Reminders never touch task state.
	for _, tk := range st.Tasks() {
		assert.False(t, tk.Completed)
	}
}

func TestViewEscapesTaskText(t *testing.T) {
	m, st := newTestModel(t)
	addTask(t, st, "<script>alert(1)</script>\x1b[2J", today(), task.High)
	m.recompute()

	out := m.View()
	assert.Contains(t, out, "Upcoming (1)")
	assert.Contains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, "\x1b[2J")
	assert.Contains(t, out, "Sunday, October 18, 2026")
}

func TestViewEmptyState(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "No tasks found")
	assert.Contains(t, out, "No upcoming tasks")
	assert.Contains(t, out, "Completion rate: 0%")
}

func TestConfiguredCancelKeyClosesForm(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Cancel = "ctrl+x"
	m, st := newTestModelWith(t, cfg)

	m, _ = send(t, m, runes("a"), runes("Draft"))
	require.Equal(t, modeForm, m.mode)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.form)
	assert.Equal(t, "Cancelled", m.status)
	assert.Empty(t, st.Tasks())
}

func TestConfiguredKeysAnswerDeletePrompt(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Confirm = "ctrl+o"
	cfg.Keys.Cancel = "ctrl+x"
	m, st := newTestModelWith(t, cfg)
	addTask(t, st, "Flashcards", today(), task.Medium)
	m.recompute()

	m, _ = send(t, m, runes("d"), tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, st.Tasks(), 1)

	m, _ = send(t, m, runes("d"), tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, st.Tasks())
}

func TestCtrlCQuitsFromEveryMode(t *testing.T) {
	m, st := newTestModel(t)
	addTask(t, st, "Flashcards", today(), task.Medium)
	m.recompute()

	_, cmd := send(t, m, ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	inForm, _ := send(t, m, runes("a"))
	require.Equal(t, modeForm, inForm.mode)
	_, cmd = send(t, inForm, ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	confirming, _ := send(t, m, runes("d"))
	require.Equal(t, modeConfirmDelete, confirming.mode)
	_, cmd = send(t, confirming, ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Len(t, st.Tasks(), 1)
}

func TestExitErrTreatsCancelledKillAsClean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	killed := fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled)

	assert.ErrorIs(t, exitErr(ctx, killed), tea.ErrProgramKilled)

	cancel()
	assert.NoError(t, exitErr(ctx, killed))
	assert.NoError(t, exitErr(ctx, nil))

	other := errors.New("boom")
	assert.Equal(t, other, exitErr(ctx, other))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
	assert.Equal(t, "red", Sanitize("\x1b[31mred\x1b[0m"))
	assert.Equal(t, "a b", Sanitize("a\nb"))
	assert.Equal(t, "ab", Sanitize("a\x07b"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░   0%", ProgressBar(0, 10))
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(50, 10))
	assert.Equal(t, strings.Repeat("█", 10)+" 100%", ProgressBar(140, 10))
}
