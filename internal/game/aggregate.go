package game

import (
	"math"

	"momentum-backend/db"
	"momentum-backend/internal/store"
)

type Stats struct {
	Count             int `json:"count"`
	CompletedCount    int `json:"completed_count"`
	CompletionPercent int `json:"completion_percent"`
}

// Aggregate counts tasks and their completion percentage, round-half-up.
// No tasks means 0%.
func Aggregate(tasks []db.Task) Stats {
	s := Stats{Count: len(tasks)}
	for _, t := range tasks {
		if t.Status == db.StatusCompleted {
			s.CompletedCount++
		}
	}
	s.CompletionPercent = percent(s.CompletedCount, s.Count)
	return s
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

type SubsectionProgress struct {
	Subsection db.Subsection `json:"subsection"`
	Stats
}

type SectionProgress struct {
	Section db.Section `json:"section"`
	Stats
	Subsections []SubsectionProgress `json:"subsections"`
}

// SectionProgress aggregates a section's whole subtree. Each subsection gets
// its own stats; the section's stats cover the union of its direct tasks and
// every subsection's tasks, so a sparse subsection can't skew the rollup the
// way averaging child percentages would.
func (e *Engine) SectionProgress(userID, sectionID uint) (*SectionProgress, error) {
	sec, err := e.store.FindSection(userID, sectionID)
	if err != nil {
		return nil, err
	}
	direct, err := e.store.FindTasks(store.TaskFilter{
		UserID:     userID,
		SectionID:  &sectionID,
		DirectOnly: true,
	})
	if err != nil {
		return nil, err
	}
	subs, err := e.store.FindSubsections(userID, sectionID)
	if err != nil {
		return nil, err
	}

	union := direct
	progress := make([]SubsectionProgress, 0, len(subs))
	for _, sub := range subs {
		subID := sub.ID
		tasks, err := e.store.FindTasks(store.TaskFilter{UserID: userID, SubsectionID: &subID})
		if err != nil {
			return nil, err
		}
		union = append(union, tasks...)
		progress = append(progress, SubsectionProgress{Subsection: sub, Stats: Aggregate(tasks)})
	}
	return &SectionProgress{
		Section:     *sec,
		Stats:       Aggregate(union),
		Subsections: progress,
	}, nil
}
