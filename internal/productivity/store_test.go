package productivity

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"ecolife-backend/internal/models"
)

var errRemote = errors.New("remote unavailable")

// fakeRecords is an in-memory RecordStore that can be told to fail or to block.
type fakeRecords struct {
	mu      sync.Mutex
	docs    map[string]models.ProductivityRecord
	loadErr error
	saveErr error
	saves   int
	loads   int
	release chan struct{} // when set, Save waits on it
	entered chan struct{} // when set, Save signals it before waiting
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{docs: make(map[string]models.ProductivityRecord)}
}

func (f *fakeRecords) Load(ctx context.Context, userID string) (*models.ProductivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	rec, ok := f.docs[userID]
	if !ok {
		return nil, nil
	}
	cp := rec.Clone()
	return &cp, nil
}

func (f *fakeRecords) Save(ctx context.Context, userID string, record models.ProductivityRecord) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.docs[userID] = record.Clone()
	return nil
}

func (f *fakeRecords) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func (f *fakeRecords) setLoadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

func (f *fakeRecords) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func fixedNow() time.Time {
	return time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
}

func seededStore(t *testing.T, opts ...Option) (*Store, *fakeRecords) {
	t.Helper()

	records := newFakeRecords()
	records.docs["user-1"] = models.ProductivityRecord{
		Goals:  []models.Goal{{ID: "g1", Title: "Plant trees", Progress: 40, TargetDate: "2025-12-31", Category: "Sustainability"}},
		Tasks:  []models.Task{models.NewTask("t1", "Buy bags"), models.NewTask("t2", "Fix bike")},
		Habits: []models.Habit{{ID: "h1", Name: "Meditate", Streak: 3}},
	}

	store := NewStore(records, append([]Option{WithClock(fixedNow)}, opts...)...)
	if err := store.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store, records
}

func TestStore_LoadExistingRecord(t *testing.T) {
	t.Parallel()

	store, _ := seededStore(t)
	snap := store.Snapshot()

	if !snap.Loaded {
		t.Error("Expected store to be loaded")
	}
	if len(snap.Goals) != 1 || len(snap.Tasks) != 2 || len(snap.Habits) != 1 {
		t.Errorf("Unexpected collections: %+v", snap.ProductivityRecord)
	}
	if snap.Habits[0].CompletedDates == nil {
		t.Error("Expected missing completedDates to be normalized to an empty list")
	}
}

func TestStore_LoadMissingRecordStartsEmpty(t *testing.T) {
	t.Parallel()

	store := NewStore(newFakeRecords())
	if err := store.Load(context.Background(), "new-user"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	snap := store.Snapshot()
	if !snap.Loaded || len(snap.Goals)+len(snap.Tasks)+len(snap.Habits) != 0 {
		t.Errorf("Expected empty loaded store, got %+v", snap)
	}
}

func TestStore_LoadFailureSurfacesError(t *testing.T) {
	t.Parallel()

	records := newFakeRecords()
	records.loadErr = errRemote
	store := NewStore(records)

	err := store.Load(context.Background(), "user-1")
	if !errors.Is(err, errRemote) {
		t.Fatalf("Expected remote error, got %v", err)
	}

	snap := store.Snapshot()
	if !snap.Loaded {
		t.Error("Expected loaded to be set after a failed fetch")
	}
	if !errors.Is(snap.Err, errRemote) {
		t.Errorf("Expected snapshot error, got %v", snap.Err)
	}
	if len(snap.Tasks) != 0 {
		t.Error("Expected empty collections after failed load")
	}
}

func TestStore_SignedOutClearsWithoutFetch(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)
	loadsBefore := records.loads

	if err := store.Load(context.Background(), ""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	snap := store.Snapshot()
	if records.loads != loadsBefore {
		t.Error("Expected no fetch when signed out")
	}
	if !snap.Loaded || len(snap.Tasks) != 0 || len(snap.Goals) != 0 {
		t.Errorf("Expected cleared, loaded store, got %+v", snap)
	}
	if _, err := store.AddTask(context.Background(), "anything"); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Expected ErrNotSignedIn, got %v", err)
	}
}

func TestStore_BlankTitlesAreNoOps(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)

	for _, title := range []string{"", "   ", "\t\n"} {
		task, err := store.AddTask(context.Background(), title)
		if task != nil || err != nil {
			t.Errorf("AddTask(%q) = %v, %v; want nil, nil", title, task, err)
		}
		goal, err := store.AddGoal(context.Background(), title)
		if goal != nil || err != nil {
			t.Errorf("AddGoal(%q) = %v, %v; want nil, nil", title, goal, err)
		}
	}

	snap := store.Snapshot()
	if len(snap.Tasks) != 2 || len(snap.Goals) != 1 {
		t.Errorf("Collections changed: %d tasks, %d goals", len(snap.Tasks), len(snap.Goals))
	}
	if records.saveCount() != 0 {
		t.Errorf("Expected no remote writes, got %d", records.saveCount())
	}
}

func TestStore_AddTaskPersistsWholeRecord(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)

	task, err := store.AddTask(context.Background(), "  Test  ")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.Title != "Test" || task.Completed || task.Priority != models.PriorityMedium || task.Category != "General" {
		t.Errorf("Unexpected task %+v", task)
	}
	if task.ID != "1762765200000" {
		t.Errorf("Expected timestamp id, got %s", task.ID)
	}

	saved := records.docs["user-1"]
	if len(saved.Tasks) != 3 || len(saved.Goals) != 1 || len(saved.Habits) != 1 {
		t.Errorf("Expected full record to be written, got %+v", saved)
	}
}

func TestStore_AddGoalDefaults(t *testing.T) {
	t.Parallel()

	store, _ := seededStore(t)

	goal, err := store.AddGoal(context.Background(), "Cycle to work")
	if err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}
	if goal.Progress != 0 || goal.TargetDate != "2025-12-10" || goal.Category != "Personal" {
		t.Errorf("Unexpected goal defaults %+v", goal)
	}
}

func TestStore_DoubleToggleRestores(t *testing.T) {
	t.Parallel()

	store, _ := seededStore(t)
	ctx := context.Background()

	if err := store.ToggleTask(ctx, "t1"); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !store.Snapshot().Tasks[0].Completed {
		t.Fatal("Expected task to be completed after one toggle")
	}
	if err := store.ToggleTask(ctx, "t1"); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if store.Snapshot().Tasks[0].Completed {
		t.Error("Expected double toggle to restore the original value")
	}
}

func TestStore_UnknownIDsAreNoOps(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)
	ctx := context.Background()

	if err := store.ToggleTask(ctx, "missing"); err != nil {
		t.Errorf("ToggleTask: %v", err)
	}
	if err := store.DeleteTask(ctx, "missing"); err != nil {
		t.Errorf("DeleteTask: %v", err)
	}
	if err := store.TickHabit(ctx, "missing"); err != nil {
		t.Errorf("TickHabit: %v", err)
	}
	if records.saveCount() != 0 {
		t.Errorf("Expected no writes for unknown ids, got %d", records.saveCount())
	}
}

func TestStore_RollbackOnPersistFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Store) error
	}{
		{name: "delete task", mutate: func(s *Store) error { return s.DeleteTask(context.Background(), "t1") }},
		{name: "toggle task", mutate: func(s *Store) error { return s.ToggleTask(context.Background(), "t2") }},
		{name: "add task", mutate: func(s *Store) error {
			_, err := s.AddTask(context.Background(), "New")
			return err
		}},
		{name: "add goal", mutate: func(s *Store) error {
			_, err := s.AddGoal(context.Background(), "New goal")
			return err
		}},
		{name: "goal progress", mutate: func(s *Store) error { return s.UpdateGoalProgress(context.Background(), "g1", 90) }},
		{name: "tick habit", mutate: func(s *Store) error { return s.TickHabit(context.Background(), "h1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, records := seededStore(t)
			before := store.Snapshot().ProductivityRecord
			records.setSaveErr(errRemote)

			err := tt.mutate(store)
			if !errors.Is(err, errRemote) {
				t.Fatalf("Expected remote error, got %v", err)
			}

			snap := store.Snapshot()
			if !reflect.DeepEqual(snap.ProductivityRecord, before) {
				t.Errorf("Expected state restored to %+v, got %+v", before, snap.ProductivityRecord)
			}
			if !errors.Is(snap.Err, errRemote) {
				t.Errorf("Expected error surfaced on snapshot, got %v", snap.Err)
			}
			if snap.Saving {
				t.Error("Expected saving to be cleared")
			}
		})
	}
}

func TestStore_LocalUpdateVisibleBeforeSaveCompletes(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		changes []Snapshot
	)
	store, records := seededStore(t, WithOnChange(func(s Snapshot) {
		mu.Lock()
		changes = append(changes, s)
		mu.Unlock()
	}))
	records.entered = make(chan struct{}, 1)
	records.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- store.DeleteTask(context.Background(), "t1")
	}()

	<-records.entered
	snap := store.Snapshot()
	if len(snap.Tasks) != 1 {
		t.Errorf("Expected optimistic delete to be visible, got %d tasks", len(snap.Tasks))
	}
	if !snap.Saving {
		t.Error("Expected saving flag while the write is in flight")
	}

	close(records.release)
	if err := <-done; err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if store.Snapshot().Saving {
		t.Error("Expected saving flag cleared after the write")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) < 2 {
		t.Errorf("Expected observer to see the change and the save, got %d notifications", len(changes))
	}
}

func TestStore_SupersededFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)
	records.entered = make(chan struct{}, 2)
	records.release = make(chan struct{})
	records.setSaveErr(errRemote)

	first := make(chan error, 1)
	go func() {
		first <- store.DeleteTask(context.Background(), "t1")
	}()
	<-records.entered

	// A second mutation lands while the first write is still in flight.
	second := make(chan error, 1)
	go func() {
		second <- store.ToggleTask(context.Background(), "t2")
	}()
	<-records.entered

	close(records.release)
	<-first
	<-second

	// The toggle was the latest change, so it alone is rolled back; the delete stays.
	snap := store.Snapshot()
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != "t2" {
		t.Fatalf("Unexpected tasks %+v", snap.Tasks)
	}
}

func TestStore_StaleLoadIsDiscarded(t *testing.T) {
	t.Parallel()

	records := newFakeRecords()
	records.docs["a"] = models.ProductivityRecord{Tasks: []models.Task{models.NewTask("1", "from a")}}
	records.docs["b"] = models.ProductivityRecord{Tasks: []models.Task{models.NewTask("2", "from b")}}

	blocking := &blockingLoad{RecordStore: records, userID: "a", release: make(chan struct{}), entered: make(chan struct{})}
	store := NewStore(blocking)

	done := make(chan error, 1)
	go func() { done <- store.Load(context.Background(), "a") }()
	<-blocking.entered

	if err := store.Load(context.Background(), "b"); err != nil {
		t.Fatalf("Load(b) failed: %v", err)
	}
	close(blocking.release)
	<-done

	snap := store.Snapshot()
	if snap.UserID != "b" || len(snap.Tasks) != 1 || snap.Tasks[0].Title != "from b" {
		t.Errorf("Expected user b's data, got %+v", snap)
	}
}

func TestStore_EarlierSessionSaveKeepsLoadError(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)
	records.entered = make(chan struct{}, 1)
	records.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := store.AddTask(context.Background(), "Water plants")
		done <- err
	}()
	<-records.entered

	records.setLoadErr(errRemote)
	if err := store.Load(context.Background(), "user-2"); !errors.Is(err, errRemote) {
		t.Fatalf("Expected load error, got %v", err)
	}

	close(records.release)
	if err := <-done; err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	snap := store.Snapshot()
	if snap.UserID != "user-2" {
		t.Fatalf("Expected user-2, got %q", snap.UserID)
	}
	if !errors.Is(snap.Err, errRemote) {
		t.Errorf("Expected user-2's load error to survive user-1's save, got %v", snap.Err)
	}
}

func TestStore_EarlierSessionSaveFailureNotReported(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)
	records.entered = make(chan struct{}, 1)
	records.release = make(chan struct{})
	records.setSaveErr(errRemote)

	done := make(chan error, 1)
	go func() {
		_, err := store.AddTask(context.Background(), "Water plants")
		done <- err
	}()
	<-records.entered

	if err := store.Load(context.Background(), "user-2"); err != nil {
		t.Fatalf("Load(user-2) failed: %v", err)
	}

	close(records.release)
	if err := <-done; !errors.Is(err, errRemote) {
		t.Fatalf("Expected AddTask to report the save error, got %v", err)
	}

	snap := store.Snapshot()
	if snap.Err != nil {
		t.Errorf("Expected no error on user-2's session, got %v", snap.Err)
	}
	if len(snap.Tasks) != 0 {
		t.Errorf("Expected user-2 to start empty, got %+v", snap.Tasks)
	}
}

type blockingLoad struct {
	RecordStore
	userID  string
	entered chan struct{}
	release chan struct{}
}

func (b *blockingLoad) Load(ctx context.Context, userID string) (*models.ProductivityRecord, error) {
	if userID == b.userID {
		close(b.entered)
		<-b.release
	}
	return b.RecordStore.Load(ctx, userID)
}

func TestStore_TickHabitRecordsDay(t *testing.T) {
	t.Parallel()

	store, records := seededStore(t)
	if err := store.TickHabit(context.Background(), "h1"); err != nil {
		t.Fatalf("TickHabit failed: %v", err)
	}

	h := records.docs["user-1"].Habits[0]
	if h.Streak != 4 {
		t.Errorf("Expected streak 4, got %d", h.Streak)
	}
	if !reflect.DeepEqual(h.CompletedDates, []string{"2025-11-10"}) {
		t.Errorf("Unexpected completed dates %v", h.CompletedDates)
	}
}

func TestStore_UpdateGoalProgressClamps(t *testing.T) {
	t.Parallel()

	store, _ := seededStore(t)
	if err := store.UpdateGoalProgress(context.Background(), "g1", 150); err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}
	if got := store.Snapshot().Goals[0].Progress; got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
	if err := store.UpdateGoalProgress(context.Background(), "g1", -20); err != nil {
		t.Fatalf("UpdateGoalProgress failed: %v", err)
	}
	if got := store.Snapshot().Goals[0].Progress; got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
}
