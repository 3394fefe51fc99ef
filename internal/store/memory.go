package store

import (
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"momentum-backend/db"
)

// MemoryStore is a map-backed Store used by tests and local development.
// It mirrors GormStore's semantics, including the conditional completion write.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[uint]*db.User
	sections    map[uint]*db.Section
	subsections map[uint]*db.Subsection
	tasks       map[uint]*db.Task
	unlocks     map[uint][]db.AchievementUnlock // userID -> unlocks
	activities  map[uint][]db.Activity          // userID -> feed, newest last
	nextID      uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uint]*db.User),
		sections:    make(map[uint]*db.Section),
		subsections: make(map[uint]*db.Subsection),
		tasks:       make(map[uint]*db.Task),
		unlocks:     make(map[uint][]db.AchievementUnlock),
		activities:  make(map[uint][]db.Activity),
	}
}

func (s *MemoryStore) nextIDLocked() uint {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) FindUser(id uint) (*db.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) FindUserByPublicID(publicID uint) (*db.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.UserID == publicID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByEmail(email string) (*db.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByToken(token string) (*db.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.AccessToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(u *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.nextIDLocked()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) SaveUserProgress(id uint, points, streak int, lastActive time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Points = points
	u.Streak = streak
	u.LastActiveDate = lastActive
	return nil
}

func (s *MemoryStore) FindSections(userID uint) ([]db.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []db.Section
	for _, sec := range s.sections {
		if sec.UserID == userID {
			out = append(out, *sec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *MemoryStore) FindSection(userID, id uint) (*db.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[id]
	if !ok || sec.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *sec
	return &cp, nil
}

func (s *MemoryStore) CountSections(userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, sec := range s.sections {
		if sec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CreateSection(sec *db.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sec.ID == 0 {
		sec.ID = s.nextIDLocked()
	}
	cp := *sec
	s.sections[sec.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateSection(userID, id uint, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[id]
	if !ok || sec.UserID != userID {
		return ErrNotFound
	}
	if v, ok := patch["title"].(string); ok {
		sec.Title = v
	}
	if v, ok := patch["icon"].(string); ok {
		sec.Icon = v
	}
	if v, ok := patch["sort_order"].(int); ok {
		sec.SortOrder = v
	}
	return nil
}

func (s *MemoryStore) DeleteSection(userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[id]
	if !ok || sec.UserID != userID {
		return ErrNotFound
	}
	delete(s.sections, id)
	for sid, sub := range s.subsections {
		if sub.SectionID == id {
			delete(s.subsections, sid)
		}
	}
	for tid, t := range s.tasks {
		if t.SectionID == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

func (s *MemoryStore) FindSubsections(userID, sectionID uint) ([]db.Subsection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []db.Subsection
	for _, sub := range s.subsections {
		if sub.SectionID == sectionID && sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *MemoryStore) FindSubsection(userID, id uint) (*db.Subsection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subsections[id]
	if !ok || sub.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *MemoryStore) CountSubsections(sectionID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, sub := range s.subsections {
		if sub.SectionID == sectionID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CreateSubsection(sub *db.Subsection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == 0 {
		sub.ID = s.nextIDLocked()
	}
	cp := *sub
	s.subsections[sub.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateSubsection(userID, id uint, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subsections[id]
	if !ok || sub.UserID != userID {
		return ErrNotFound
	}
	if v, ok := patch["title"].(string); ok {
		sub.Title = v
	}
	if v, ok := patch["sort_order"].(int); ok {
		sub.SortOrder = v
	}
	return nil
}

func (s *MemoryStore) DeleteSubsection(userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subsections[id]
	if !ok || sub.UserID != userID {
		return ErrNotFound
	}
	delete(s.subsections, id)
	for tid, t := range s.tasks {
		if t.SubsectionID != nil && *t.SubsectionID == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

func matchesFilter(t *db.Task, f TaskFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.SectionID != nil && t.SectionID != *f.SectionID {
		return false
	}
	if f.SubsectionID != nil && (t.SubsectionID == nil || *t.SubsectionID != *f.SubsectionID) {
		return false
	}
	if f.DirectOnly && t.SubsectionID != nil {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.From != nil || f.To != nil {
		anchor := t.TargetDate
		if anchor == nil {
			anchor = t.Deadline
		}
		if anchor == nil {
			return false
		}
		if f.From != nil && anchor.Before(*f.From) {
			return false
		}
		if f.To != nil && anchor.After(*f.To) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) FindTasks(f TaskFilter) ([]db.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []db.Task
	for _, t := range s.tasks {
		if matchesFilter(t, f) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CountTasks(f TaskFilter) (int64, error) {
	tasks, err := s.FindTasks(f)
	if err != nil {
		return 0, err
	}
	return int64(len(tasks)), nil
}

func (s *MemoryStore) FindTask(userID, id uint) (*db.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) CreateTask(t *db.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		t.ID = s.nextIDLocked()
	}
	if t.Priority == "" {
		t.Priority = db.PriorityMedium
	}
	if t.Status == "" {
		t.Status = db.StatusPending
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateTask(userID, id uint, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	if v, ok := patch["title"].(string); ok {
		t.Title = v
	}
	if v, ok := patch["priority"].(string); ok {
		t.Priority = v
	}
	if v, ok := patch["tags"].(pq.StringArray); ok {
		t.Tags = v
	}
	if v, ok := patch["target_date"].(*time.Time); ok {
		t.TargetDate = v
	}
	if v, ok := patch["deadline"].(*time.Time); ok {
		t.Deadline = v
	}
	return nil
}

func (s *MemoryStore) DeleteTask(userID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) CompleteTask(userID, id uint, at time.Time) (*db.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	if t.Status != db.StatusPending {
		return nil, ErrAlreadyCompleted
	}
	t.Status = db.StatusCompleted
	completedAt := at
	t.CompletedAt = &completedAt
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) CountEarlyCompletions(userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, t := range s.tasks {
		if t.UserID == userID && t.Type == db.TaskTypeDeadline && t.Status == db.StatusCompleted &&
			t.CompletedAt != nil && t.Deadline != nil && t.CompletedAt.Before(*t.Deadline) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) FindUnlocks(userID uint) ([]db.AchievementUnlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]db.AchievementUnlock, len(s.unlocks[userID]))
	copy(out, s.unlocks[userID])
	return out, nil
}

func (s *MemoryStore) HasUnlock(userID uint, achievementID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.unlocks[userID] {
		if u.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateUnlock(u *db.AchievementUnlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.nextIDLocked()
	}
	s.unlocks[u.UserID] = append(s.unlocks[u.UserID], *u)
	return nil
}

func (s *MemoryStore) CreateActivity(a *db.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.activities[a.UserID] = append(s.activities[a.UserID], *a)
	return nil
}

func (s *MemoryStore) FindActivities(userID uint, limit int) ([]db.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed := s.activities[userID]
	out := make([]db.Activity, 0, limit)
	for i := len(feed) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, feed[i])
	}
	return out, nil
}

func (s *MemoryStore) TrimActivities(userID uint, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed := s.activities[userID]
	if len(feed) > keep {
		s.activities[userID] = append([]db.Activity(nil), feed[len(feed)-keep:]...)
	}
	return nil
}
