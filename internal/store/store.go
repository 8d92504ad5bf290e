package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyplan/internal/storage"
	"studyplan/internal/task"
)

const DefaultKey = "studyTasks"

var (
	ErrTitleRequired = errors.New("title is required")
	ErrDateRequired  = errors.New("date is required")
)

// Store owns the task collection and mirrors it to a storage slot after
// every mutation. It is not safe for concurrent use.
type Store struct {
	slot   storage.Slot
	key    string
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
	tasks  []task.Task
}

type Option func(*Store)

// WithKey sets the slot key the collection is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		now:    time.Now,
		newID:  newTaskID,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTaskID returns a UUIDv7, whose leading bits encode the creation time.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load replaces the in-memory collection with the stored one. A missing or
// unreadable slot yields an empty collection.
func (s *Store) Load(ctx context.Context) {
	s.tasks = []task.Task{}

	data, err := s.slot.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("task slot unreadable, starting empty", "key", s.key, "error", err)
		}
		return
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Warn("task slot corrupt, starting empty", "key", s.key, "error", err)
		return
	}
	if tasks != nil {
		s.tasks = tasks
	}
	s.logger.Debug("tasks loaded", "count", len(s.tasks))
}

// Persist writes the whole collection to the slot.
func (s *Store) Persist(ctx context.Context) error {
	data, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		s.logger.Error("persist tasks", "key", s.key, "error", err)
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id string) (task.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func validate(d task.Draft) (task.Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return d, ErrTitleRequired
	}
	if d.Date.IsZero() {
		return d, ErrDateRequired
	}
	if d.Priority == "" {
		d.Priority = task.Medium
	}
	if !d.Priority.Valid() {
		return d, fmt.Errorf("%q: %w", d.Priority, task.ErrInvalidPriority)
	}
	return d, nil
}

// Add appends a new task built from d and persists.
func (s *Store) Add(ctx context.Context, d task.Draft) (task.Task, error) {
	d, err := validate(d)
	if err != nil {
		return task.Task{}, err
	}
	t := task.Task{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Priority:    d.Priority,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	s.tasks = append(s.tasks, t)
	s.logger.Info("task added", "id", t.ID, "date", t.Date.String(), "priority", t.Priority)
	return t, s.Persist(ctx)
}

// Delete removes the task with id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Info("task deleted", "id", id)
	return true, s.Persist(ctx)
}

// Toggle flips the completion flag of the task with id.
func (s *Store) Toggle(ctx context.Context, id string) (task.Task, bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Info("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return s.tasks[i], true, s.Persist(ctx)
}

// Edit replaces the mutable fields of the task with id.
func (s *Store) Edit(ctx context.Context, id string, d task.Draft) (task.Task, bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false, nil
	}
	d, err := validate(d)
	if err != nil {
		return s.tasks[i], true, err
	}
	t := &s.tasks[i]
	t.Title = d.Title
	t.Description = d.Description
	t.Date = d.Date
	t.Priority = d.Priority
	s.logger.Info("task edited", "id", id)
	return *t, true, s.Persist(ctx)
}

// ShiftDate moves the due date of the task with id by days.
func (s *Store) ShiftDate(ctx context.Context, id string, days int) (task.Task, bool, error) {
	t, ok := s.Get(id)
	if !ok {
		return task.Task{}, false, nil
	}
	d := task.DraftOf(t)
	d.Date = d.Date.AddDays(days)
	return s.Edit(ctx, id, d)
}

// BumpPriority raises (delta > 0) or lowers the priority of the task with id.
func (s *Store) BumpPriority(ctx context.Context, id string, delta int) (task.Task, bool, error) {
	t, ok := s.Get(id)
	if !ok {
		return task.Task{}, false, nil
	}
	d := task.DraftOf(t)
	d.Priority = d.Priority.Bump(delta)
	return s.Edit(ctx, id, d)
}
