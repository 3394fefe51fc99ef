package game

import (
	"time"

	"github.com/pkg/errors"

	"momentum-backend/db"
)

// ErrInvalidState means a task's type and temporal anchor don't line up.
var ErrInvalidState = errors.New("task type does not match its date fields")

const earlyBonus = 25

func BasePoints(priority string) int {
	switch priority {
	case db.PriorityLow:
		return 50
	case db.PriorityHigh:
		return 100
	default:
		return 75
	}
}

// CompletionPoints is the award for completing t at the given moment: the
// priority base, plus the early bonus for deadline tasks beaten to their
// deadline. Daily tasks never get the bonus.
func CompletionPoints(t *db.Task, now time.Time) int {
	points := BasePoints(t.Priority)
	if t.Type == db.TaskTypeDeadline && t.Deadline != nil && now.Before(*t.Deadline) {
		points += earlyBonus
	}
	return points
}

// ValidateTask checks that a task carries exactly the temporal anchor its type
// requires: target_date for daily, deadline for deadline.
func ValidateTask(t *db.Task) error {
	switch t.Type {
	case db.TaskTypeDaily:
		if t.TargetDate == nil || t.Deadline != nil {
			return ErrInvalidState
		}
	case db.TaskTypeDeadline:
		if t.Deadline == nil || t.TargetDate != nil {
			return ErrInvalidState
		}
	default:
		return ErrInvalidState
	}
	return nil
}
