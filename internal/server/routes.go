package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"

	"momentum-backend/internal/game"
	"momentum-backend/internal/store"
)

type contextKey string

const userIDKey contextKey = "user_id"

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	// Use environment variable for allowed origins
	allowedOrigins := []string{"http://localhost:5173"}
	if prodOrigin := os.Getenv("FRONTEND_URL"); prodOrigin != "" {
		allowedOrigins = append(allowedOrigins, prodOrigin)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/{provider}/callback", s.getAuthCallbackFunction)
		r.Get("/{provider}", s.beginAuthProviderCallback)
		r.Get("/logout/{provider}", s.logOutFunction)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Route("/api", func(r chi.Router) {
			r.Get("/me", s.getMe)

			r.Get("/sections", s.getSections)
			r.Post("/sections", s.createSection)
			r.Put("/sections/{id}", s.updateSection)
			r.Delete("/sections/{id}", s.deleteSection)
			r.Get("/sections/{id}/progress", s.getSectionProgress)
			r.Post("/sections/{id}/subsections", s.createSubsection)
			r.Put("/subsections/{id}", s.updateSubsection)
			r.Delete("/subsections/{id}", s.deleteSubsection)

			r.Get("/tasks", s.getTasks)
			r.Post("/tasks", s.createTask)
			r.Put("/tasks/{id}", s.updateTask)
			r.Delete("/tasks/{id}", s.deleteTask)
			r.Post("/tasks/{id}/complete", s.completeTask)

			r.Get("/achievements", s.getAchievements)
			r.Get("/stats/calendar", s.getCalendarStats)
			r.Get("/stats/weekly", s.getWeeklyHeatmap)
			r.Get("/activity", s.getActivity)
		})
	})
	return r
}

func (s *Server) userID(r *http.Request) uint {
	id, _ := r.Context().Value(userIDKey).(uint)
	return id
}

func urlID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	return uint(id), err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, store.ErrAlreadyCompleted):
		http.Error(w, "task already completed", http.StatusConflict)
	case errors.Is(err, game.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
