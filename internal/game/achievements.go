package game

import (
	"time"

	"github.com/google/uuid"

	"momentum-backend/db"
	"momentum-backend/internal/store"
)

type Unlocked struct {
	Achievement
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementStatus is the catalog entry as shown to a user: metadata plus
// whether (and when) they unlocked it.
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

func (e *Engine) snapshot(userID uint) (Snapshot, error) {
	u, err := e.store.FindUser(userID)
	if err != nil {
		return Snapshot{}, err
	}
	completed, err := e.store.CountTasks(store.TaskFilter{UserID: userID, Status: db.StatusCompleted})
	if err != nil {
		return Snapshot{}, err
	}
	early, err := e.store.CountEarlyCompletions(userID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		CompletedCount: int(completed),
		Streak:         u.Streak,
		Points:         u.Points,
		EarlyCount:     int(early),
	}, nil
}

// CheckAchievements walks the catalog in order and grants every achievement
// whose predicate now holds and that the user doesn't already have. The
// snapshot is rebuilt per entry, so a reward granted earlier in the same pass
// counts toward later predicates (e.g. a reward pushing points over 1000).
// Safe to re-run: already-unlocked ids are skipped, nothing is ever revoked.
func (e *Engine) CheckAchievements(userID uint, now time.Time) ([]Unlocked, error) {
	var newly []Unlocked
	for _, a := range Catalog {
		has, err := e.store.HasUnlock(userID, a.ID)
		if err != nil {
			return newly, err
		}
		if has {
			continue
		}
		snap, err := e.snapshot(userID)
		if err != nil {
			return newly, err
		}
		if !a.Satisfied(snap) {
			continue
		}
		if err := e.store.CreateUnlock(&db.AchievementUnlock{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    now,
		}); err != nil {
			return newly, err
		}
		u, err := e.store.FindUser(userID)
		if err != nil {
			return newly, err
		}
		if err := e.store.SaveUserProgress(u.ID, u.Points+a.Points, u.Streak, u.LastActiveDate); err != nil {
			return newly, err
		}
		e.store.CreateActivity(&db.Activity{
			ID:        uuid.NewString(),
			UserID:    userID,
			Kind:      db.ActivityAchievementUnlocked,
			Title:     a.Title,
			Points:    a.Points,
			CreatedAt: now,
		})
		newly = append(newly, Unlocked{Achievement: a, UnlockedAt: now})
	}
	return newly, nil
}

// AchievementStatuses returns the whole catalog annotated with the user's
// unlock state, in catalog order.
func (e *Engine) AchievementStatuses(userID uint) ([]AchievementStatus, error) {
	unlocks, err := e.store.FindUnlocks(userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		byID[u.AchievementID] = u.UnlockedAt
	}
	out := make([]AchievementStatus, 0, len(Catalog))
	for _, a := range Catalog {
		st := AchievementStatus{Achievement: a}
		if at, ok := byID[a.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}
