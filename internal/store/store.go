package store

import (
	"time"

	"github.com/pkg/errors"

	"momentum-backend/db"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyCompleted = errors.New("task already completed")
)

// TaskFilter narrows task queries. Zero-value fields are ignored.
type TaskFilter struct {
	UserID       uint
	SectionID    *uint
	SubsectionID *uint
	DirectOnly   bool // only tasks with no subsection
	Status       string
	Type         string
	From         *time.Time // matched against whichever of target_date/deadline is set
	To           *time.Time
}

// Store is everything the handlers and the game engine need from persistence.
// GormStore is the production implementation; MemoryStore backs the tests.
type Store interface {
	FindUser(id uint) (*db.User, error)
	FindUserByPublicID(publicID uint) (*db.User, error)
	FindUserByEmail(email string) (*db.User, error)
	FindUserByToken(token string) (*db.User, error)
	CreateUser(u *db.User) error
	SaveUserProgress(id uint, points, streak int, lastActive time.Time) error

	FindSections(userID uint) ([]db.Section, error)
	FindSection(userID, id uint) (*db.Section, error)
	CountSections(userID uint) (int64, error)
	CreateSection(s *db.Section) error
	UpdateSection(userID, id uint, patch map[string]interface{}) error
	DeleteSection(userID, id uint) error

	FindSubsections(userID, sectionID uint) ([]db.Subsection, error)
	FindSubsection(userID, id uint) (*db.Subsection, error)
	CountSubsections(sectionID uint) (int64, error)
	CreateSubsection(ss *db.Subsection) error
	UpdateSubsection(userID, id uint, patch map[string]interface{}) error
	DeleteSubsection(userID, id uint) error

	FindTasks(f TaskFilter) ([]db.Task, error)
	CountTasks(f TaskFilter) (int64, error)
	FindTask(userID, id uint) (*db.Task, error)
	CreateTask(t *db.Task) error
	UpdateTask(userID, id uint, patch map[string]interface{}) error
	DeleteTask(userID, id uint) error
	// CompleteTask flips a pending task to completed. The status check and the
	// write are a single conditional update so the first writer wins; the loser
	// gets ErrAlreadyCompleted.
	CompleteTask(userID, id uint, at time.Time) (*db.Task, error)
	CountEarlyCompletions(userID uint) (int64, error)

	FindUnlocks(userID uint) ([]db.AchievementUnlock, error)
	HasUnlock(userID uint, achievementID string) (bool, error)
	CreateUnlock(u *db.AchievementUnlock) error

	CreateActivity(a *db.Activity) error
	FindActivities(userID uint, limit int) ([]db.Activity, error)
	TrimActivities(userID uint, keep int) error
}
