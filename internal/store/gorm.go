package store

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"momentum-backend/db"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{db: d}
}

func (s *GormStore) FindUser(id uint) (*db.User, error) {
	var u db.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, wrapNotFound(err, "find user")
	}
	return &u, nil
}

func (s *GormStore) FindUserByPublicID(publicID uint) (*db.User, error) {
	var u db.User
	if err := s.db.Where("user_id = ?", publicID).First(&u).Error; err != nil {
		return nil, wrapNotFound(err, "find user by public id")
	}
	return &u, nil
}

func (s *GormStore) FindUserByEmail(email string) (*db.User, error) {
	var u db.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, wrapNotFound(err, "find user by email")
	}
	return &u, nil
}

func (s *GormStore) FindUserByToken(token string) (*db.User, error) {
	var u db.User
	if err := s.db.Where("access_token = ?", token).First(&u).Error; err != nil {
		return nil, wrapNotFound(err, "find user by token")
	}
	return &u, nil
}

func (s *GormStore) CreateUser(u *db.User) error {
	return errors.Wrap(s.db.Create(u).Error, "create user")
}

func (s *GormStore) SaveUserProgress(id uint, points, streak int, lastActive time.Time) error {
	res := s.db.Model(&db.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"points":           points,
		"streak":           streak,
		"last_active_date": lastActive,
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "save user progress")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) FindSections(userID uint) ([]db.Section, error) {
	var sections []db.Section
	err := s.db.Where("user_id = ?", userID).Order("sort_order").Find(&sections).Error
	return sections, errors.Wrap(err, "find sections")
}

func (s *GormStore) FindSection(userID, id uint) (*db.Section, error) {
	var sec db.Section
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&sec).Error; err != nil {
		return nil, wrapNotFound(err, "find section")
	}
	return &sec, nil
}

func (s *GormStore) CountSections(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&db.Section{}).Where("user_id = ?", userID).Count(&n).Error
	return n, errors.Wrap(err, "count sections")
}

func (s *GormStore) CreateSection(sec *db.Section) error {
	return errors.Wrap(s.db.Create(sec).Error, "create section")
}

func (s *GormStore) UpdateSection(userID, id uint, patch map[string]interface{}) error {
	res := s.db.Model(&db.Section{}).Where("id = ? AND user_id = ?", id, userID).Updates(patch)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update section")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteSection(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Section{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete section")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	// Cascade: subsections and tasks under this section.
	s.db.Where("section_id = ? AND user_id = ?", id, userID).Delete(&db.Subsection{})
	s.db.Where("section_id = ? AND user_id = ?", id, userID).Delete(&db.Task{})
	return nil
}

func (s *GormStore) FindSubsections(userID, sectionID uint) ([]db.Subsection, error) {
	var subs []db.Subsection
	err := s.db.Where("section_id = ? AND user_id = ?", sectionID, userID).Order("sort_order").Find(&subs).Error
	return subs, errors.Wrap(err, "find subsections")
}

func (s *GormStore) FindSubsection(userID, id uint) (*db.Subsection, error) {
	var sub db.Subsection
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&sub).Error; err != nil {
		return nil, wrapNotFound(err, "find subsection")
	}
	return &sub, nil
}

func (s *GormStore) CountSubsections(sectionID uint) (int64, error) {
	var n int64
	err := s.db.Model(&db.Subsection{}).Where("section_id = ?", sectionID).Count(&n).Error
	return n, errors.Wrap(err, "count subsections")
}

func (s *GormStore) CreateSubsection(sub *db.Subsection) error {
	return errors.Wrap(s.db.Create(sub).Error, "create subsection")
}

func (s *GormStore) UpdateSubsection(userID, id uint, patch map[string]interface{}) error {
	res := s.db.Model(&db.Subsection{}).Where("id = ? AND user_id = ?", id, userID).Updates(patch)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update subsection")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteSubsection(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Subsection{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete subsection")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.db.Where("subsection_id = ? AND user_id = ?", id, userID).Delete(&db.Task{})
	return nil
}

func (s *GormStore) taskQuery(f TaskFilter) *gorm.DB {
	q := s.db.Model(&db.Task{}).Where("user_id = ?", f.UserID)
	if f.SectionID != nil {
		q = q.Where("section_id = ?", *f.SectionID)
	}
	if f.SubsectionID != nil {
		q = q.Where("subsection_id = ?", *f.SubsectionID)
	}
	if f.DirectOnly {
		q = q.Where("subsection_id IS NULL")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.From != nil {
		q = q.Where("COALESCE(target_date, deadline) >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("COALESCE(target_date, deadline) <= ?", *f.To)
	}
	return q
}

func (s *GormStore) FindTasks(f TaskFilter) ([]db.Task, error) {
	var tasks []db.Task
	err := s.taskQuery(f).Order("id").Find(&tasks).Error
	return tasks, errors.Wrap(err, "find tasks")
}

func (s *GormStore) CountTasks(f TaskFilter) (int64, error) {
	var n int64
	err := s.taskQuery(f).Count(&n).Error
	return n, errors.Wrap(err, "count tasks")
}

func (s *GormStore) FindTask(userID, id uint) (*db.Task, error) {
	var t db.Task
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		return nil, wrapNotFound(err, "find task")
	}
	return &t, nil
}

func (s *GormStore) CreateTask(t *db.Task) error {
	return errors.Wrap(s.db.Create(t).Error, "create task")
}

func (s *GormStore) UpdateTask(userID, id uint, patch map[string]interface{}) error {
	res := s.db.Model(&db.Task{}).Where("id = ? AND user_id = ?", id, userID).Updates(patch)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update task")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteTask(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Task{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete task")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CompleteTask(userID, id uint, at time.Time) (*db.Task, error) {
	res := s.db.Model(&db.Task{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, db.StatusPending).
		Updates(map[string]interface{}{"status": db.StatusCompleted, "completed_at": at})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "complete task")
	}
	if res.RowsAffected == 0 {
		// Either the task is gone or another request completed it first.
		if _, err := s.FindTask(userID, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyCompleted
	}
	return s.FindTask(userID, id)
}

func (s *GormStore) CountEarlyCompletions(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&db.Task{}).
		Where("user_id = ? AND type = ? AND status = ? AND completed_at < deadline",
			userID, db.TaskTypeDeadline, db.StatusCompleted).
		Count(&n).Error
	return n, errors.Wrap(err, "count early completions")
}

func (s *GormStore) FindUnlocks(userID uint) ([]db.AchievementUnlock, error) {
	var unlocks []db.AchievementUnlock
	err := s.db.Where("user_id = ?", userID).Order("unlocked_at").Find(&unlocks).Error
	return unlocks, errors.Wrap(err, "find unlocks")
}

func (s *GormStore) HasUnlock(userID uint, achievementID string) (bool, error) {
	var n int64
	err := s.db.Model(&db.AchievementUnlock{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&n).Error
	return n > 0, errors.Wrap(err, "check unlock")
}

func (s *GormStore) CreateUnlock(u *db.AchievementUnlock) error {
	return errors.Wrap(s.db.Create(u).Error, "create unlock")
}

func (s *GormStore) CreateActivity(a *db.Activity) error {
	return errors.Wrap(s.db.Create(a).Error, "create activity")
}

func (s *GormStore) FindActivities(userID uint, limit int) ([]db.Activity, error) {
	var feed []db.Activity
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&feed).Error
	return feed, errors.Wrap(err, "find activities")
}

func (s *GormStore) TrimActivities(userID uint, keep int) error {
	var ids []string
	err := s.db.Model(&db.Activity{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(keep).
		Pluck("id", &ids).Error
	if err != nil {
		return errors.Wrap(err, "trim activities")
	}
	if len(ids) == 0 {
		return nil
	}
	return errors.Wrap(s.db.Where("id IN ?", ids).Delete(&db.Activity{}).Error, "trim activities")
}

func wrapNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}
