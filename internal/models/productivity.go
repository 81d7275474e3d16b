package models

import "time"

// TaskPriority is one of low, medium or high.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

const (
	DefaultGoalCategory = "Personal"
	DefaultTaskCategory = "General"

	// GoalHorizon is how far ahead a new goal's target date is set when none is given.
	GoalHorizon = 30 * 24 * time.Hour

	// DateLayout is the calendar-date format used for target dates and habit completions.
	DateLayout = "2006-01-02"
)

type Goal struct {
	ID         string `bson:"id" json:"id"`
	Title      string `bson:"title" json:"title"`
	Progress   int    `bson:"progress" json:"progress"`
	TargetDate string `bson:"target_date" json:"targetDate"`
	Category   string `bson:"category" json:"category"`
}

// NewGoal builds a goal with the default progress, target date and category.
func NewGoal(id, title string, now time.Time) Goal {
	return Goal{
		ID:         id,
		Title:      title,
		Progress:   0,
		TargetDate: now.Add(GoalHorizon).UTC().Format(DateLayout),
		Category:   DefaultGoalCategory,
	}
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

type Task struct {
	ID        string       `bson:"id" json:"id"`
	Title     string       `bson:"title" json:"title"`
	Completed bool         `bson:"completed" json:"completed"`
	Priority  TaskPriority `bson:"priority" json:"priority"`
	Category  string       `bson:"category" json:"category"`
}

// NewTask builds an open, medium priority task in the General category.
func NewTask(id, title string) Task {
	return Task{
		ID:       id,
		Title:    title,
		Priority: PriorityMedium,
		Category: DefaultTaskCategory,
	}
}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type Habit struct {
	ID             string   `bson:"id" json:"id"`
	Name           string   `bson:"name" json:"name"`
	Description    string   `bson:"description" json:"description"`
	Streak         int      `bson:"streak" json:"streak"`
	CompletedDates []string `bson:"completed_dates,omitempty" json:"completedDates,omitempty"`
}

// Tick bumps the streak and records the day, once per calendar day.
func (h *Habit) Tick(day string) {
	h.Streak++
	if day == "" {
		return
	}
	for _, d := range h.CompletedDates {
		if d == day {
			return
		}
	}
	h.CompletedDates = append(h.CompletedDates, day)
}

// ProductivityRecord is the composite goals/tasks/habits record, always read and
// written as one unit.
type ProductivityRecord struct {
	Goals  []Goal  `bson:"goals" json:"goals"`
	Tasks  []Task  `bson:"tasks" json:"tasks"`
	Habits []Habit `bson:"habits" json:"habits"`
}

// Clone returns a deep copy so callers can hand it out without sharing slices.
func (r ProductivityRecord) Clone() ProductivityRecord {
	out := ProductivityRecord{
		Goals:  append([]Goal{}, r.Goals...),
		Tasks:  append([]Task{}, r.Tasks...),
		Habits: make([]Habit, len(r.Habits)),
	}
	for i, h := range r.Habits {
		if h.CompletedDates != nil {
			h.CompletedDates = append([]string{}, h.CompletedDates...)
		}
		out.Habits[i] = h
	}
	return out
}

// ProductivityDocument is the stored shape of a user's record.
type ProductivityDocument struct {
	UserID    string    `bson:"_id" json:"user_id"`
	Goals     []Goal    `bson:"goals" json:"goals"`
	Tasks     []Task    `bson:"tasks" json:"tasks"`
	Habits    []Habit   `bson:"habits" json:"habits"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (d *ProductivityDocument) Record() ProductivityRecord {
	return ProductivityRecord{Goals: d.Goals, Tasks: d.Tasks, Habits: d.Habits}
}
