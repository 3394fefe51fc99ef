package server

import (
	"net/http"
	"strconv"
	"time"
)

func (s *Server) getSectionProgress(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	progress, err := s.engine.SectionProgress(s.userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) getAchievements(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.engine.AchievementStatuses(s.userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) getCalendarStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "month must be 1-12", http.StatusBadRequest)
			return
		}
		month = time.Month(m)
	}
	stats, err := s.engine.CalendarStats(s.userID(r), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) getWeeklyHeatmap(w http.ResponseWriter, r *http.Request) {
	heatmap, err := s.engine.WeeklyHeatmap(s.userID(r), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		if n > activityFeedKeep {
			n = activityFeedKeep
		}
		limit = n
	}
	feed, err := s.store.FindActivities(s.userID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
