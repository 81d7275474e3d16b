// Package productivity keeps a signed-in user's goals, tasks and habits in memory.
//
// Every mutation is applied locally first and observers are notified straight away;
// the full composite record is then written to the user's remote document. When that
// write fails and nothing newer has happened since, the local state goes back to what
// it was before the mutation.
package productivity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ecolife-backend/internal/idgen"
	"ecolife-backend/internal/models"

	"go.uber.org/zap"
)

var ErrNotSignedIn = errors.New("no user is signed in")

// RecordStore reads and writes a user's composite record as one unit.
// Load returns nil, nil when the user has no record yet.
type RecordStore interface {
	Load(ctx context.Context, userID string) (*models.ProductivityRecord, error)
	Save(ctx context.Context, userID string, record models.ProductivityRecord) error
}

// Snapshot is a copy of the store's state, safe to keep and read.
type Snapshot struct {
	UserID string
	models.ProductivityRecord
	Loaded bool
	Saving bool
	Err    error
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the clock used for ids, target dates and habit days.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
		s.ids = idgen.NewWithClock(now)
	}
}

// WithOnChange registers a callback run after every local state change. It is called
// without the store lock held.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Store) { s.onChange = fn }
}

type Store struct {
	records  RecordStore
	logger   *zap.Logger
	ids      *idgen.Generator
	now      func() time.Time
	onChange func(Snapshot)

	mu      sync.Mutex
	userID  string
	state   models.ProductivityRecord
	session uint64 // bumped by every Load
	version uint64 // bumped by every local change
	loaded  bool
	saving  int
	lastErr error
}

func NewStore(records RecordStore, opts ...Option) *Store {
	s := &Store{
		records: records,
		logger:  zap.NewNop(),
		ids:     idgen.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load switches the store to userID and fetches that user's record. An empty userID
// means signed out: collections are cleared and nothing is fetched. If another Load
// starts before this one finishes, this one's result is dropped.
func (s *Store) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.session++
	session := s.session
	s.version++
	s.userID = userID
	s.state = models.ProductivityRecord{}
	s.lastErr = nil
	s.loaded = userID == ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	if userID == "" {
		return nil
	}

	record, err := s.records.Load(ctx, userID)

	s.mu.Lock()
	if session != s.session {
		s.mu.Unlock()
		return nil
	}
	s.version++
	s.loaded = true
	if err != nil {
		s.lastErr = fmt.Errorf("load productivity data: %w", err)
		err = s.lastErr
	} else if record != nil {
		s.state = normalizeHabits(record.Clone())
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	if err != nil {
		s.logger.Warn("productivity_load_failed", zap.String("user_id", userID), zap.Error(err))
	}
	return err
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// AddTask appends a task titled title. A blank title is ignored and returns nil, nil.
func (s *Store) AddTask(ctx context.Context, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	var task models.Task
	err := s.mutate(ctx, "add_task", func(r *models.ProductivityRecord) bool {
		task = models.NewTask(s.ids.Next(), title)
		r.Tasks = append(r.Tasks, task)
		return true
	})
	if errors.Is(err, ErrNotSignedIn) {
		return nil, err
	}
	return &task, err
}

// ToggleTask flips the completed flag of task id. Unknown ids are ignored.
func (s *Store) ToggleTask(ctx context.Context, id string) error {
	return s.mutate(ctx, "toggle_task", func(r *models.ProductivityRecord) bool {
		for i := range r.Tasks {
			if r.Tasks[i].ID == id {
				r.Tasks[i].Completed = !r.Tasks[i].Completed
				return true
			}
		}
		return false
	})
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_task", func(r *models.ProductivityRecord) bool {
		kept := make([]models.Task, 0, len(r.Tasks))
		for _, t := range r.Tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(r.Tasks) {
			return false
		}
		r.Tasks = kept
		return true
	})
}

// AddGoal appends a goal titled title with zero progress, due in 30 days.
// A blank title is ignored and returns nil, nil.
func (s *Store) AddGoal(ctx context.Context, title string) (*models.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	var goal models.Goal
	err := s.mutate(ctx, "add_goal", func(r *models.ProductivityRecord) bool {
		goal = models.NewGoal(s.ids.Next(), title, s.now())
		r.Goals = append(r.Goals, goal)
		return true
	})
	if errors.Is(err, ErrNotSignedIn) {
		return nil, err
	}
	return &goal, err
}

// UpdateGoalProgress stores progress clamped to [0,100].
func (s *Store) UpdateGoalProgress(ctx context.Context, id string, progress int) error {
	progress = models.ClampProgress(progress)
	return s.mutate(ctx, "update_goal_progress", func(r *models.ProductivityRecord) bool {
		for i := range r.Goals {
			if r.Goals[i].ID == id {
				if r.Goals[i].Progress == progress {
					return false
				}
				r.Goals[i].Progress = progress
				return true
			}
		}
		return false
	})
}

func (s *Store) AddHabit(ctx context.Context, name, description string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var habit models.Habit
	err := s.mutate(ctx, "add_habit", func(r *models.ProductivityRecord) bool {
		habit = models.Habit{
			ID:             s.ids.Next(),
			Name:           name,
			Description:    strings.TrimSpace(description),
			CompletedDates: []string{},
		}
		r.Habits = append(r.Habits, habit)
		return true
	})
	if errors.Is(err, ErrNotSignedIn) {
		return nil, err
	}
	return &habit, err
}

// TickHabit bumps the streak of habit id and records today as completed.
func (s *Store) TickHabit(ctx context.Context, id string) error {
	day := s.now().UTC().Format(models.DateLayout)
	return s.mutate(ctx, "tick_habit", func(r *models.ProductivityRecord) bool {
		for i := range r.Habits {
			if r.Habits[i].ID == id {
				r.Habits[i].Tick(day)
				return true
			}
		}
		return false
	})
}

// mutate applies fn to a working copy of the state. If fn reports a change, the copy
// becomes the local state, observers are notified and the whole record is saved. The
// lock is released for the duration of the save.
func (s *Store) mutate(ctx context.Context, op string, fn func(*models.ProductivityRecord) bool) error {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return ErrNotSignedIn
	}

	prev := s.state
	next := s.state.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		return nil
	}

	s.state = next
	s.version++
	version := s.version
	session := s.session
	userID := s.userID
	s.saving++
	record := next.Clone()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	err := s.records.Save(ctx, userID, record)

	s.mu.Lock()
	s.saving--
	if err != nil {
		err = fmt.Errorf("save productivity data: %w", err)
		rolledBack := false
		if s.session == session {
			s.lastErr = err
			if s.version == version {
				s.state = prev
				s.version++
				rolledBack = true
			}
		}
		snap = s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)

		s.logger.Warn("productivity_persist_failed",
			zap.String("op", op),
			zap.String("user_id", userID),
			zap.Bool("rolled_back", rolledBack),
			zap.Error(err),
		)
		return err
	}
	// A save for an earlier session must not clear the current user's error
	if s.session == session {
		s.lastErr = nil
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		UserID:             s.userID,
		ProductivityRecord: s.state.Clone(),
		Loaded:             s.loaded,
		Saving:             s.saving > 0,
		Err:                s.lastErr,
	}
}

func (s *Store) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

// normalizeHabits gives every habit a non-nil completion list.
func normalizeHabits(r models.ProductivityRecord) models.ProductivityRecord {
	for i := range r.Habits {
		if r.Habits[i].CompletedDates == nil {
			r.Habits[i].CompletedDates = []string{}
		}
	}
	return r
}
