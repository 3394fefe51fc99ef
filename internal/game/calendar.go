package game

import (
	"time"

	"momentum-backend/db"
	"momentum-backend/internal/store"
)

type DayCount struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type DaySummary struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

// taskAnchor is the task's single temporal field: target date for daily
// tasks, deadline for deadline tasks.
func taskAnchor(t *db.Task) *time.Time {
	if t.TargetDate != nil {
		return t.TargetDate
	}
	return t.Deadline
}

// CalendarStats buckets a month's tasks by day-of-month.
func (e *Engine) CalendarStats(userID uint, year int, month time.Month) (map[int]DayCount, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)
	tasks, err := e.store.FindTasks(store.TaskFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	out := make(map[int]DayCount)
	for i := range tasks {
		anchor := taskAnchor(&tasks[i])
		if anchor == nil {
			continue
		}
		c := out[anchor.Day()]
		c.Total++
		if tasks[i].Status == db.StatusCompleted {
			c.Completed++
		}
		out[anchor.Day()] = c
	}
	return out, nil
}

// WeeklyHeatmap summarizes the 7 calendar days ending today, oldest first.
func (e *Engine) WeeklyHeatmap(userID uint, now time.Time) ([]DaySummary, error) {
	start := midnight(now).AddDate(0, 0, -6)
	end := midnight(now).AddDate(0, 0, 1).Add(-time.Second)
	tasks, err := e.store.FindTasks(store.TaskFilter{UserID: userID, From: &start, To: &end})
	if err != nil {
		return nil, err
	}

	out := make([]DaySummary, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		var total, completed int
		for j := range tasks {
			anchor := taskAnchor(&tasks[j])
			if anchor == nil || !midnight(anchor.In(now.Location())).Equal(day) {
				continue
			}
			total++
			if tasks[j].Status == db.StatusCompleted {
				completed++
			}
		}
		out = append(out, DaySummary{
			Date:      day.Format("2006-01-02"),
			Total:     total,
			Completed: completed,
			Percent:   percent(completed, total),
		})
	}
	return out, nil
}
