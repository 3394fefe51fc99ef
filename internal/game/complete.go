package game

import (
	"time"

	"github.com/google/uuid"

	"momentum-backend/db"
)

type CompletionResult struct {
	Task            *db.Task   `json:"task"`
	PointsEarned    int        `json:"points_earned"`
	TotalPoints     int        `json:"total_points"`
	NewAchievements []Unlocked `json:"new_achievements"`
}

// CompleteTask flips the task to completed, awards points and runs the
// achievement pass. The status flip is a conditional store write, so a second
// completion of the same task fails with store.ErrAlreadyCompleted before any
// points move. PointsEarned covers only the base award plus the early bonus;
// achievement rewards show up in NewAchievements and in TotalPoints.
func (e *Engine) CompleteTask(userID, taskID uint, now time.Time) (*CompletionResult, error) {
	task, err := e.store.CompleteTask(userID, taskID, now)
	if err != nil {
		return nil, err
	}

	earned := CompletionPoints(task, now)
	u, err := e.store.FindUser(userID)
	if err != nil {
		return nil, err
	}
	if err := e.store.SaveUserProgress(u.ID, u.Points+earned, u.Streak, u.LastActiveDate); err != nil {
		return nil, err
	}
	e.store.CreateActivity(&db.Activity{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      db.ActivityTaskCompleted,
		Title:     task.Title,
		Points:    earned,
		CreatedAt: now,
	})

	unlocked, err := e.CheckAchievements(userID, now)
	if err != nil {
		return nil, err
	}
	u, err = e.store.FindUser(userID)
	if err != nil {
		return nil, err
	}
	return &CompletionResult{
		Task:            task,
		PointsEarned:    earned,
		TotalPoints:     u.Points,
		NewAchievements: unlocked,
	}, nil
}
