package store

import (
	"fmt"
	"testing"
	"time"

	"momentum-backend/db"
)

func seed(t *testing.T) (*MemoryStore, *db.User, *db.Section) {
	t.Helper()
	s := NewMemoryStore()
	u := &db.User{Username: "tester", Email: "tester@example.com", UserID: 111222333}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	sec := &db.Section{Title: "Home", UserID: u.ID}
	if err := s.CreateSection(sec); err != nil {
		t.Fatalf("create section: %v", err)
	}
	return s, u, sec
}

func pendingTask(t *testing.T, s *MemoryStore, userID, sectionID uint) *db.Task {
	t.Helper()
	target := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	task := &db.Task{
		Title:      "chore",
		Type:       db.TaskTypeDaily,
		TargetDate: &target,
		Status:     db.StatusPending,
		UserID:     userID,
		SectionID:  sectionID,
	}
	if err := s.CreateTask(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestCompleteTaskConditionalWrite(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("first writer wins, second sees AlreadyCompleted", func(t *testing.T) {
		s, u, sec := seed(t)
		task := pendingTask(t, s, u.ID, sec.ID)

		done, err := s.CompleteTask(u.ID, task.ID, now)
		if err != nil {
			t.Fatalf("first completion: %v", err)
		}
		if done.Status != db.StatusCompleted || done.CompletedAt == nil || !done.CompletedAt.Equal(now) {
			t.Errorf("task = %+v, want completed at %v", done, now)
		}

		if _, err := s.CompleteTask(u.ID, task.ID, now.Add(time.Minute)); err != ErrAlreadyCompleted {
			t.Fatalf("second completion err = %v, want ErrAlreadyCompleted", err)
		}
		// The first completion's timestamp must survive.
		stored, _ := s.FindTask(u.ID, task.ID)
		if !stored.CompletedAt.Equal(now) {
			t.Errorf("completedAt = %v, want %v", stored.CompletedAt, now)
		}
	})

	t.Run("unknown task is not found", func(t *testing.T) {
		s, u, _ := seed(t)
		if _, err := s.CompleteTask(u.ID, 999, now); err != ErrNotFound {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("another user's task is not found", func(t *testing.T) {
		s, u, sec := seed(t)
		task := pendingTask(t, s, u.ID, sec.ID)

		other := &db.User{Username: "other", Email: "other@example.com", UserID: 444555666}
		if err := s.CreateUser(other); err != nil {
			t.Fatalf("create user: %v", err)
		}
		if _, err := s.CompleteTask(other.ID, task.ID, now); err != ErrNotFound {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestCascadeDeletes(t *testing.T) {
	t.Run("deleting a section removes its subsections and tasks", func(t *testing.T) {
		s, u, sec := seed(t)
		sub := &db.Subsection{Title: "Kitchen", SectionID: sec.ID, UserID: u.ID}
		if err := s.CreateSubsection(sub); err != nil {
			t.Fatalf("create subsection: %v", err)
		}
		direct := pendingTask(t, s, u.ID, sec.ID)
		subID := sub.ID

		if err := s.DeleteSection(u.ID, sec.ID); err != nil {
			t.Fatalf("delete section: %v", err)
		}
		if _, err := s.FindSubsection(u.ID, subID); err != ErrNotFound {
			t.Errorf("subsection survived the cascade")
		}
		if _, err := s.FindTask(u.ID, direct.ID); err != ErrNotFound {
			t.Errorf("direct task survived the cascade")
		}
	})

	t.Run("deleting a subsection removes only its tasks", func(t *testing.T) {
		s, u, sec := seed(t)
		sub := &db.Subsection{Title: "Kitchen", SectionID: sec.ID, UserID: u.ID}
		if err := s.CreateSubsection(sub); err != nil {
			t.Fatalf("create subsection: %v", err)
		}
		direct := pendingTask(t, s, u.ID, sec.ID)

		subID := sub.ID
		target := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		nested := &db.Task{
			Title:        "nested",
			Type:         db.TaskTypeDaily,
			TargetDate:   &target,
			Status:       db.StatusPending,
			UserID:       u.ID,
			SectionID:    sec.ID,
			SubsectionID: &subID,
		}
		if err := s.CreateTask(nested); err != nil {
			t.Fatalf("create nested task: %v", err)
		}

		if err := s.DeleteSubsection(u.ID, sub.ID); err != nil {
			t.Fatalf("delete subsection: %v", err)
		}
		if _, err := s.FindTask(u.ID, nested.ID); err != ErrNotFound {
			t.Error("nested task survived the cascade")
		}
		if _, err := s.FindTask(u.ID, direct.ID); err != nil {
			t.Error("direct task should survive a subsection delete")
		}
	})
}

func TestTaskFilters(t *testing.T) {
	s, u, sec := seed(t)
	sub := &db.Subsection{Title: "Inbox", SectionID: sec.ID, UserID: u.ID}
	if err := s.CreateSubsection(sub); err != nil {
		t.Fatalf("create subsection: %v", err)
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	direct := pendingTask(t, s, u.ID, sec.ID)
	if _, err := s.CompleteTask(u.ID, direct.ID, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	subID := sub.ID
	deadline := now.AddDate(0, 0, 3)
	nested := &db.Task{
		Title:        "report",
		Type:         db.TaskTypeDeadline,
		Deadline:     &deadline,
		Status:       db.StatusPending,
		UserID:       u.ID,
		SectionID:    sec.ID,
		SubsectionID: &subID,
	}
	if err := s.CreateTask(nested); err != nil {
		t.Fatalf("create nested: %v", err)
	}

	t.Run("direct only", func(t *testing.T) {
		sectionID := sec.ID
		tasks, err := s.FindTasks(TaskFilter{UserID: u.ID, SectionID: &sectionID, DirectOnly: true})
		if err != nil {
			t.Fatalf("FindTasks: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != direct.ID {
			t.Errorf("got %d tasks, want just the direct one", len(tasks))
		}
	})

	t.Run("by subsection", func(t *testing.T) {
		tasks, err := s.FindTasks(TaskFilter{UserID: u.ID, SubsectionID: &subID})
		if err != nil {
			t.Fatalf("FindTasks: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != nested.ID {
			t.Errorf("got %d tasks, want just the nested one", len(tasks))
		}
	})

	t.Run("by status and type", func(t *testing.T) {
		n, err := s.CountTasks(TaskFilter{UserID: u.ID, Status: db.StatusCompleted})
		if err != nil {
			t.Fatalf("CountTasks: %v", err)
		}
		if n != 1 {
			t.Errorf("completed count = %d, want 1", n)
		}
		n, err = s.CountTasks(TaskFilter{UserID: u.ID, Type: db.TaskTypeDeadline})
		if err != nil {
			t.Fatalf("CountTasks: %v", err)
		}
		if n != 1 {
			t.Errorf("deadline count = %d, want 1", n)
		}
	})

	t.Run("by date range on the anchor field", func(t *testing.T) {
		from := now.AddDate(0, 0, 1)
		to := now.AddDate(0, 0, 7)
		tasks, err := s.FindTasks(TaskFilter{UserID: u.ID, From: &from, To: &to})
		if err != nil {
			t.Fatalf("FindTasks: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != nested.ID {
			t.Errorf("got %d tasks in range, want the deadline task", len(tasks))
		}
	})
}

func TestCountEarlyCompletions(t *testing.T) {
	s, u, sec := seed(t)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mk := func(deadline, completedAt time.Time) {
		t.Helper()
		task := &db.Task{
			Title:       "d",
			Type:        db.TaskTypeDeadline,
			Deadline:    &deadline,
			Status:      db.StatusCompleted,
			CompletedAt: &completedAt,
			UserID:      u.ID,
			SectionID:   sec.ID,
		}
		if err := s.CreateTask(task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	mk(now.Add(time.Hour), now)  // early
	mk(now, now.Add(time.Hour))  // late
	mk(now.Add(2*time.Hour), now) // early

	n, err := s.CountEarlyCompletions(u.ID)
	if err != nil {
		t.Fatalf("CountEarlyCompletions: %v", err)
	}
	if n != 2 {
		t.Errorf("early count = %d, want 2", n)
	}
}

func TestActivityFeed(t *testing.T) {
	s, u, _ := seed(t)

	for i := 0; i < 5; i++ {
		a := &db.Activity{
			ID:        fmt.Sprintf("act-%d", i),
			UserID:    u.ID,
			Kind:      db.ActivityTaskCompleted,
			Title:     "t",
			Points:    50,
			CreatedAt: time.Date(2025, 3, 10, 12, i, 0, 0, time.UTC),
		}
		if err := s.CreateActivity(a); err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}

	t.Run("newest first, limited", func(t *testing.T) {
		feed, err := s.FindActivities(u.ID, 3)
		if err != nil {
			t.Fatalf("FindActivities: %v", err)
		}
		if len(feed) != 3 {
			t.Fatalf("feed has %d entries, want 3", len(feed))
		}
		if !feed[0].CreatedAt.After(feed[1].CreatedAt) {
			t.Error("feed not newest-first")
		}
	})

	t.Run("trim keeps only the newest", func(t *testing.T) {
		if err := s.TrimActivities(u.ID, 2); err != nil {
			t.Fatalf("TrimActivities: %v", err)
		}
		feed, err := s.FindActivities(u.ID, 10)
		if err != nil {
			t.Fatalf("FindActivities: %v", err)
		}
		if len(feed) != 2 {
			t.Errorf("feed has %d entries after trim, want 2", len(feed))
		}
	})
}
