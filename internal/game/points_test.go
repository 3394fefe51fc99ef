package game

import (
	"testing"
	"time"

	"momentum-backend/db"
)

func TestBasePoints(t *testing.T) {
	cases := []struct {
		priority string
		want     int
	}{
		{db.PriorityLow, 50},
		{db.PriorityMedium, 75},
		{db.PriorityHigh, 100},
	}
	for _, c := range cases {
		if got := BasePoints(c.priority); got != c.want {
			t.Errorf("BasePoints(%q) = %d, want %d", c.priority, got, c.want)
		}
	}
}

func TestCompletionPoints(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("deadline beaten earns the bonus", func(t *testing.T) {
		deadline := now.Add(24 * time.Hour)
		task := &db.Task{Type: db.TaskTypeDeadline, Priority: db.PriorityHigh, Deadline: &deadline}
		if got := CompletionPoints(task, now); got != 125 {
			t.Errorf("points = %d, want 125", got)
		}
	})

	t.Run("deadline missed earns only the base", func(t *testing.T) {
		deadline := now.Add(-time.Hour)
		task := &db.Task{Type: db.TaskTypeDeadline, Priority: db.PriorityHigh, Deadline: &deadline}
		if got := CompletionPoints(task, now); got != 100 {
			t.Errorf("points = %d, want 100", got)
		}
	})

	t.Run("completing exactly at the deadline earns no bonus", func(t *testing.T) {
		deadline := now
		task := &db.Task{Type: db.TaskTypeDeadline, Priority: db.PriorityLow, Deadline: &deadline}
		if got := CompletionPoints(task, now); got != 50 {
			t.Errorf("points = %d, want 50", got)
		}
	})

	t.Run("daily tasks never get the bonus", func(t *testing.T) {
		target := now.Add(24 * time.Hour)
		task := &db.Task{Type: db.TaskTypeDaily, Priority: db.PriorityMedium, TargetDate: &target}
		if got := CompletionPoints(task, now); got != 75 {
			t.Errorf("points = %d, want 75", got)
		}
	})
}

func TestValidateTask(t *testing.T) {
	when := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("daily task needs a target date", func(t *testing.T) {
		if err := ValidateTask(&db.Task{Type: db.TaskTypeDaily}); err != ErrInvalidState {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
		if err := ValidateTask(&db.Task{Type: db.TaskTypeDaily, TargetDate: &when}); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("deadline task needs a deadline", func(t *testing.T) {
		if err := ValidateTask(&db.Task{Type: db.TaskTypeDeadline}); err != ErrInvalidState {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
		if err := ValidateTask(&db.Task{Type: db.TaskTypeDeadline, Deadline: &when}); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("both anchors set is invalid", func(t *testing.T) {
		task := &db.Task{Type: db.TaskTypeDaily, TargetDate: &when, Deadline: &when}
		if err := ValidateTask(task); err != ErrInvalidState {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("unknown type is invalid", func(t *testing.T) {
		if err := ValidateTask(&db.Task{Type: "weekly", TargetDate: &when}); err != ErrInvalidState {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
	})
}
