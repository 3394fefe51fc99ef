package server

import (
	"encoding/json"
	"net/http"

	"momentum-backend/db"
)

func (s *Server) getSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.store.FindSections(s.userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (s *Server) createSection(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)
	var req struct {
		Title string `json:"title"`
		Icon  string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// New sections go to the end of the list.
	count, err := s.store.CountSections(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	section := db.Section{
		Title:     req.Title,
		Icon:      req.Icon,
		SortOrder: int(count),
		UserID:    userID,
	}
	if err := s.store.CreateSection(&section); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, section)
}

func (s *Server) updateSection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Title *string `json:"title"`
		Icon  *string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	patch := map[string]interface{}{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Icon != nil {
		patch["icon"] = *req.Icon
	}
	if err := s.store.UpdateSection(s.userID(r), id, patch); err != nil {
		writeError(w, err)
		return
	}
	section, err := s.store.FindSection(s.userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (s *Server) deleteSection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.DeleteSection(s.userID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createSubsection(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)
	sectionID, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Parent must exist and belong to the caller.
	if _, err := s.store.FindSection(userID, sectionID); err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	count, err := s.store.CountSubsections(sectionID)
	if err != nil {
		writeError(w, err)
		return
	}
	sub := db.Subsection{
		Title:     req.Title,
		SortOrder: int(count),
		SectionID: sectionID,
		UserID:    userID,
	}
	if err := s.store.CreateSubsection(&sub); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) updateSubsection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Title *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	patch := map[string]interface{}{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if err := s.store.UpdateSubsection(s.userID(r), id, patch); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.store.FindSubsection(s.userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) deleteSubsection(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.DeleteSubsection(s.userID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
