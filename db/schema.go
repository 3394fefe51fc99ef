package db

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	TaskTypeDaily    = "daily"
	TaskTypeDeadline = "deadline"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending   = "pending"
	StatusCompleted = "completed"

	ActivityTaskCompleted       = "task_completed"
	ActivityAchievementUnlocked = "achievement_unlocked"
)

type User struct {
	gorm.Model
	Username       string    `json:"username" gorm:"unique"`
	Email          string    `json:"email" gorm:"unique"`
	UserID         uint      `json:"user_id"`
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	Points         int       `json:"points"`
	Streak         int       `json:"streak"`
	LastActiveDate time.Time `json:"last_active_date"`
	Sections       []Section `json:"sections" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Section struct {
	gorm.Model
	Title       string       `json:"title"`
	Icon        string       `json:"icon"`
	SortOrder   int          `json:"sort_order"`
	UserID      uint         `json:"user_id" gorm:"not null"`
	Subsections []Subsection `json:"subsections" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	Tasks       []Task       `json:"tasks" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

type Subsection struct {
	gorm.Model
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
	SectionID uint   `json:"section_id" gorm:"not null"`
	UserID    uint   `json:"user_id" gorm:"not null"`
	Tasks     []Task `json:"tasks" gorm:"foreignKey:SubsectionID;constraint:OnDelete:CASCADE"`
}

type Task struct {
	gorm.Model
	Title        string         `json:"title"`
	Type         string         `json:"type"` // daily | deadline
	TargetDate   *time.Time     `json:"target_date,omitempty"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	Priority     string         `json:"priority" gorm:"default:medium"`
	Tags         pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status       string         `json:"status" gorm:"default:pending"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	UserID       uint           `json:"user_id" gorm:"not null"`
	SectionID    uint           `json:"section_id" gorm:"not null"`
	SubsectionID *uint          `json:"subsection_id,omitempty"` // nil means direct child of the section
}

type AchievementUnlock struct {
	gorm.Model
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID string    `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// Activity is the per-user feed of point-earning events.
type Activity struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Kind      string    `json:"kind"` // task_completed | achievement_unlocked
	Title     string    `json:"title"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}
