package game

import (
	"time"

	"momentum-backend/db"
	"momentum-backend/internal/store"
)

// Engine runs the gamification rules over a Store. All per-user coordination
// lives in the store's conditional writes; the engine itself is stateless.
type Engine struct {
	store store.Store
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// TouchLogin records a login event: streak update plus activity stamp.
// Called from the auth callback, once per login.
func (e *Engine) TouchLogin(userID uint, now time.Time) (*db.User, error) {
	u, err := e.store.FindUser(userID)
	if err != nil {
		return nil, err
	}
	UpdateStreak(u, now)
	if err := e.store.SaveUserProgress(u.ID, u.Points, u.Streak, u.LastActiveDate); err != nil {
		return nil, err
	}
	return u, nil
}
