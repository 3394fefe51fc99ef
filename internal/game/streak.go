package game

import (
	"math"
	"time"

	"momentum-backend/db"
)

// UpdateStreak applies the login streak rule: active yesterday extends the
// streak, a longer gap resets it to 1, same-day (or clock-skewed) logins leave
// it alone. LastActiveDate is stamped with the full timestamp on every login.
func UpdateStreak(u *db.User, now time.Time) {
	last := u.LastActiveDate
	if last.IsZero() {
		// Never seen before; the account's creation counts as today.
		last = u.CreatedAt
	}
	diff := daysBetween(midnight(last.In(now.Location())), midnight(now))
	switch {
	case diff == 1:
		u.Streak++
	case diff > 1:
		u.Streak = 1
	}
	u.LastActiveDate = now
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole days from a to b, both at midnight. Rounding keeps
// a DST-shortened or -stretched day counting as one day.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
