package game

import (
	"testing"
	"time"

	"momentum-backend/db"
	"momentum-backend/internal/store"
)

func newTestEngine() (*Engine, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return NewEngine(s), s
}

func seedUser(t *testing.T, s *store.MemoryStore, points, streak int) *db.User {
	t.Helper()
	u := &db.User{
		Username: "tester",
		Email:    "tester@example.com",
		UserID:   123456789,
		Points:   points,
		Streak:   streak,
	}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedSection(t *testing.T, s *store.MemoryStore, userID uint) *db.Section {
	t.Helper()
	sec := &db.Section{Title: "Work", Icon: "💼", UserID: userID}
	if err := s.CreateSection(sec); err != nil {
		t.Fatalf("create section: %v", err)
	}
	return sec
}

func seedDailyTask(t *testing.T, s *store.MemoryStore, userID, sectionID uint, priority string, target time.Time) *db.Task {
	t.Helper()
	task := &db.Task{
		Title:      "daily task",
		Type:       db.TaskTypeDaily,
		TargetDate: &target,
		Priority:   priority,
		Status:     db.StatusPending,
		UserID:     userID,
		SectionID:  sectionID,
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func seedDeadlineTask(t *testing.T, s *store.MemoryStore, userID, sectionID uint, priority string, deadline time.Time) *db.Task {
	t.Helper()
	task := &db.Task{
		Title:     "deadline task",
		Type:      db.TaskTypeDeadline,
		Deadline:  &deadline,
		Priority:  priority,
		Status:    db.StatusPending,
		UserID:    userID,
		SectionID: sectionID,
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

// seedCompletedDeadlineTask inserts a task already in completed state, as if
// it was finished at completedAt.
func seedCompletedDeadlineTask(t *testing.T, s *store.MemoryStore, userID, sectionID uint, deadline, completedAt time.Time) *db.Task {
	t.Helper()
	task := &db.Task{
		Title:       "done deadline task",
		Type:        db.TaskTypeDeadline,
		Deadline:    &deadline,
		Priority:    db.PriorityMedium,
		Status:      db.StatusCompleted,
		CompletedAt: &completedAt,
		UserID:      userID,
		SectionID:   sectionID,
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}
