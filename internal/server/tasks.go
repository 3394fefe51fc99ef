package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lib/pq"

	"momentum-backend/db"
	"momentum-backend/internal/game"
	"momentum-backend/internal/store"
)

func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{UserID: s.userID(r)}
	q := r.URL.Query()
	if v := q.Get("section_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sectionID := uint(id)
		filter.SectionID = &sectionID
	}
	if v := q.Get("subsection_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		subsectionID := uint(id)
		filter.SubsectionID = &subsectionID
	}
	filter.Status = q.Get("status")
	filter.Type = q.Get("type")

	tasks, err := s.store.FindTasks(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)
	var task db.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task.UserID = userID
	task.Status = db.StatusPending
	task.CompletedAt = nil
	if task.Priority == "" {
		task.Priority = db.PriorityMedium
	}

	// Parents must exist and belong to the caller.
	if _, err := s.store.FindSection(userID, task.SectionID); err != nil {
		writeError(w, err)
		return
	}
	if task.SubsectionID != nil {
		sub, err := s.store.FindSubsection(userID, *task.SubsectionID)
		if err != nil {
			writeError(w, err)
			return
		}
		if sub.SectionID != task.SectionID {
			writeError(w, store.ErrNotFound)
			return
		}
	}
	if err := game.ValidateTask(&task); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.CreateTask(&task); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Status and completed_at are not patchable here: completion must go
	// through the completion endpoint so points and achievements apply.
	var req struct {
		Title      *string    `json:"title"`
		Priority   *string    `json:"priority"`
		Tags       []string   `json:"tags"`
		TargetDate *time.Time `json:"target_date"`
		Deadline   *time.Time `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	patch := map[string]interface{}{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Priority != nil {
		patch["priority"] = *req.Priority
	}
	if req.Tags != nil {
		patch["tags"] = pq.StringArray(req.Tags)
	}
	if req.TargetDate != nil {
		patch["target_date"] = req.TargetDate
	}
	if req.Deadline != nil {
		patch["deadline"] = req.Deadline
	}
	if err := s.store.UpdateTask(s.userID(r), id, patch); err != nil {
		writeError(w, err)
		return
	}
	task, err := s.store.FindTask(s.userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.DeleteTask(s.userID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := s.engine.CompleteTask(userID, id, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	s.store.TrimActivities(userID, activityFeedKeep)
	writeJSON(w, http.StatusOK, result)
}
