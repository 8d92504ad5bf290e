package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"studyplan/internal/config"
	"studyplan/internal/projection"
	"studyplan/internal/reminder"
	"studyplan/internal/store"
	"studyplan/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// Options carries the runtime knobs that are not part of the key config.
type Options struct {
	Clock            clockwork.Clock
	ReminderInterval time.Duration
	NotificationTTL  time.Duration
	Logger           *slog.Logger
}

type Model struct {
	ctx    context.Context
	store  *store.Store
	keys   keyMap
	help   help.Model
	clock  clockwork.Clock
	ttl    time.Duration
	logger *slog.Logger

	priorityFilter projection.PriorityFilter
	statusFilter   projection.StatusFilter

	// Projections, rebuilt by recompute after every mutation.
	visible  []task.Task
	timeline []projection.Bucket
	stats    projection.Stats

	cursor     int
	mode       mode
	input      textinput.Model
	form       *formState
	pendingDel *task.Task
	status     string
	notes      []notification
	nextNoteID int
	width      int
}

// New builds the model over an already loaded store.
func New(ctx context.Context, st *store.Store, cfg config.Config, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = config.DefaultNotificationTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pf, err := projection.ParsePriorityFilter(cfg.DefaultPriorityFilter)
	if err != nil {
		opts.Logger.Warn("ignoring default priority filter", "error", err)
		pf = projection.All
	}
	sf, err := projection.ParseStatusFilter(cfg.DefaultStatusFilter)
	if err != nil {
		opts.Logger.Warn("ignoring default status filter", "error", err)
		sf = projection.StatusAll
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		ctx:            ctx,
		store:          st,
		keys:           newKeyMap(cfg.Keys),
		help:           help.New(),
		clock:          opts.Clock,
		ttl:            opts.NotificationTTL,
		logger:         opts.Logger,
		priorityFilter: pf,
		statusFilter:   sf,
		input:          ti,
		mode:           modeList,
		status:         fmt.Sprintf("Press '%s' to add a task.", displayKey(cfg.Keys.Add)),
	}
	m.recompute()
	return m
}

// Run starts the TUI and the reminder scheduler and blocks until the user
// quits. The scheduler stops with the program.
func Run(ctx context.Context, st *store.Store, cfg config.Config, opts Options) error {
	m := New(ctx, st, cfg, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	schedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := reminder.NewScheduler(m.clock, opts.ReminderInterval)
	sched.Logger = m.logger
	go func() {
		_ = sched.Run(schedCtx, func(now time.Time) {
			program.Send(reminderTickMsg{now: now})
		})
	}()

	_, err := program.Run()
	return exitErr(ctx, err)
}

// exitErr treats a program killed by its own cancelled context as a clean
// shutdown.
func exitErr(ctx context.Context, err error) error {
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) today() task.Date {
	return task.DateOf(m.clock.Now())
}

// recompute rebuilds every projection from the store.
func (m *Model) recompute() {
	tasks := m.store.Tasks()
	m.visible = projection.Filtered(tasks, m.priorityFilter, m.statusFilter)
	m.timeline = projection.Timeline(tasks, m.today())
	m.stats = projection.ComputeStats(tasks)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

// selectTask moves the cursor onto id if it is visible.
func (m *Model) selectTask(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		}
		return m.updateListMode(msg)
	case reminderTickMsg:
		return m.handleReminder(msg.now)
	case dismissMsg:
		m.dismiss(msg.id)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(20, msg.Width/2-10)
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case key.Matches(msg, m.keys.Add):
		return m.startForm(newCreateForm(m.today()))
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(newEditForm(t))
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", Sanitize(t.Title))
	case key.Matches(msg, m.keys.Detail):
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.status = detailLine(t)
	case key.Matches(msg, m.keys.PriorityUp):
		return m.quickEdit("Priority raised", func(id string) (task.Task, bool, error) {
			return m.store.BumpPriority(m.ctx, id, 1)
		})
	case key.Matches(msg, m.keys.PriorityDown):
		return m.quickEdit("Priority lowered", func(id string) (task.Task, bool, error) {
			return m.store.BumpPriority(m.ctx, id, -1)
		})
	case key.Matches(msg, m.keys.DueForward):
		return m.quickEdit("Due date moved forward", func(id string) (task.Task, bool, error) {
			return m.store.ShiftDate(m.ctx, id, 1)
		})
	case key.Matches(msg, m.keys.DueBack):
		return m.quickEdit("Due date moved back", func(id string) (task.Task, bool, error) {
			return m.store.ShiftDate(m.ctx, id, -1)
		})
	case key.Matches(msg, m.keys.FilterPriority):
		m.priorityFilter = m.priorityFilter.Next()
		m.recompute()
		m.status = "Priority filter: " + string(m.priorityFilter)
	case key.Matches(msg, m.keys.FilterStatus):
		m.statusFilter = m.statusFilter.Next()
		m.recompute()
		m.status = "Status filter: " + string(m.statusFilter)
	}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	updated, found, err := m.store.Toggle(m.ctx, t.ID)
	m.recompute()
	if !found {
		return m, nil
	}
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		cmd := m.notify(levelError, "Could not save changes")
		return m, cmd
	}
	m.selectTask(updated.ID)
	m.status = "Toggled task"
	text := "Task marked as pending"
	if updated.Completed {
		text = "Task completed! Great job!"
	}
	cmd := m.notify(levelSuccess, text)
	return m, cmd
}

func (m Model) quickEdit(done string, apply func(id string) (task.Task, bool, error)) (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	updated, found, err := apply(t.ID)
	m.recompute()
	if !found {
		return m, nil
	}
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.selectTask(updated.ID)
	m.status = done
	return m, nil
}

func (m Model) startForm(f *formState) (tea.Model, tea.Cmd) {
	m.form = f
	m.mode = modeForm
	m.loadField()
	m.status = m.formPrompt()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) loadField() {
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeForm()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= fieldCount-1 {
			return m.submitForm()
		}
		m.form.index++
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, fieldCount)
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, fieldCount)
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft(m.today())
	if err != nil {
		m.status = fmt.Sprintf("Invalid task: %v", err)
		return m, nil
	}

	if m.form.kind == formEdit {
		id := m.form.taskID
		_, found, err := m.store.Edit(m.ctx, id, d)
		m.closeForm()
		m.recompute()
		if !found {
			m.status = "Task no longer exists"
			return m, nil
		}
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			cmd := m.notify(levelError, "Could not save changes")
			return m, cmd
		}
		m.selectTask(id)
		m.status = "Task updated"
		cmd := m.notify(levelSuccess, "Task updated successfully!")
		return m, cmd
	}

	added, err := m.store.Add(m.ctx, d)
	if added.ID == "" {
		m.status = fmt.Sprintf("Invalid task: %v", err)
		return m, nil
	}
	m.closeForm()
	m.recompute()
	m.selectTask(added.ID)
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		cmd := m.notify(levelError, "Could not save changes")
		return m, cmd
	}
	m.status = "Added task"
	cmd := m.notify(levelSuccess, "Task added successfully!")
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s (field %d of %d). Enter to advance, tab to move, esc to cancel.",
		m.form.heading(), m.form.currentLabel(), m.form.index+1, fieldCount)
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch {
	case k == "n" || k == "N" || key.Matches(msg, m.keys.Cancel):
		m.status = "Delete cancelled"
		m.mode = modeList
		m.pendingDel = nil
		return m, nil
	case k == "y" || k == "Y" || key.Matches(msg, m.keys.Confirm):
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.mode = modeList
			return m, nil
		}
		_, err := m.store.Delete(m.ctx, m.pendingDel.ID)
		m.mode = modeList
		m.pendingDel = nil
		m.recompute()
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			cmd := m.notify(levelError, "Could not save changes")
			return m, cmd
		}
		m.status = "Deleted task"
		cmd := m.notify(levelError, "Task deleted!")
		return m, cmd
	default:
		return m, nil
	}
}

func detailLine(t task.Task) string {
	info := fmt.Sprintf("%s • %s • due %s • %s • created %s",
		Sanitize(t.Title), humanDone(t.Completed), t.Date, t.Priority, t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if t.Description != "" {
		info += " • " + Sanitize(t.Description)
	}
	return info
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
