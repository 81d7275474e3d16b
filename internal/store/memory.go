// Package store holds the process-local productivity collections and contact inbox.
// State lives only as long as the process; a restart goes back to DefaultSeed.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"ecolife-backend/internal/idgen"
	"ecolife-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

// NewGoal carries the optional fields of a goal creation request.
type NewGoal struct {
	Title      string
	TargetDate string
	Category   string
}

type NewTask struct {
	Title    string
	Priority models.TaskPriority
	Category string
}

type NewContact struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Stats are the dashboard counters.
type Stats struct {
	Contacts       int `json:"contacts"`
	Goals          int `json:"goals"`
	Tasks          int `json:"tasks"`
	Habits         int `json:"habits"`
	CompletedTasks int `json:"completedTasks"`
	TaskCompletion int `json:"taskCompletion"`
}

// Memory is safe for concurrent use. Every find-then-mutate runs under the write lock
// and reads hand back copies.
type Memory struct {
	mu       sync.RWMutex
	state    models.ProductivityRecord
	contacts []models.ContactMessage
	ids      *idgen.Generator
	now      func() time.Time
}

func NewMemory(seed models.ProductivityRecord) *Memory {
	return &Memory{
		state: seed.Clone(),
		ids:   idgen.New(),
		now:   time.Now,
	}
}

// WithClock swaps the clock and id source; used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	m.ids = idgen.NewWithClock(now)
	return m
}

// Reset restores the collections to seed and empties the contact inbox.
func (m *Memory) Reset(seed models.ProductivityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = seed.Clone()
	m.contacts = nil
}

func (m *Memory) Snapshot() models.ProductivityRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

func (m *Memory) AddGoal(in NewGoal) models.Goal {
	m.mu.Lock()
	defer m.mu.Unlock()

	goal := models.NewGoal(m.ids.Next(), strings.TrimSpace(in.Title), m.now())
	if in.TargetDate != "" {
		goal.TargetDate = in.TargetDate
	}
	if in.Category != "" {
		goal.Category = in.Category
	}
	m.state.Goals = append(m.state.Goals, goal)
	return goal
}

// UpdateGoalProgress clamps and stores progress when one is given. A nil progress
// leaves the goal untouched and just returns it.
func (m *Memory) UpdateGoalProgress(id string, progress *int) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Goals {
		if m.state.Goals[i].ID != id {
			continue
		}
		if progress != nil {
			m.state.Goals[i].Progress = models.ClampProgress(*progress)
		}
		return m.state.Goals[i], nil
	}
	return models.Goal{}, ErrNotFound
}

func (m *Memory) AddTask(in NewTask) models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := models.NewTask(m.ids.Next(), strings.TrimSpace(in.Title))
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.Category != "" {
		task.Category = in.Category
	}
	m.state.Tasks = append(m.state.Tasks, task)
	return task
}

func (m *Memory) ToggleTask(id string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Tasks {
		if m.state.Tasks[i].ID == id {
			m.state.Tasks[i].Completed = !m.state.Tasks[i].Completed
			return m.state.Tasks[i], nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (m *Memory) DeleteTask(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.state.Tasks[:0:0]
	for _, t := range m.state.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(m.state.Tasks) {
		return ErrNotFound
	}
	m.state.Tasks = kept
	return nil
}

func (m *Memory) TickHabit(id string) (models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.state.Habits {
		if m.state.Habits[i].ID == id {
			// The server shape has no completion dates.
			m.state.Habits[i].Streak++
			return m.state.Habits[i], nil
		}
	}
	return models.Habit{}, ErrNotFound
}

func (m *Memory) AddContact(in NewContact) models.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := models.ContactMessage{
		ID:        m.ids.Next(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: m.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	m.contacts = append(m.contacts, entry)
	return entry
}

func (m *Memory) Contacts() []models.ContactMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ContactMessage{}, m.contacts...)
}

func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		Contacts: len(m.contacts),
		Goals:    len(m.state.Goals),
		Tasks:    len(m.state.Tasks),
		Habits:   len(m.state.Habits),
	}
	for _, t := range m.state.Tasks {
		if t.Completed {
			s.CompletedTasks++
		}
	}
	if s.Tasks > 0 {
		s.TaskCompletion = s.CompletedTasks * 100 / s.Tasks
	}
	return s
}
