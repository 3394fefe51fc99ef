package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/markbates/goth/gothic"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"momentum-backend/db"
	"momentum-backend/internal/store"
)

func (s *Server) getAuthCallbackFunction(w http.ResponseWriter, r *http.Request) {
	user, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Printf("Auth error: %v", err)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	// Create or update user in database
	dbUser, err := s.store.FindUserByEmail(user.Email)
	if errors.Is(err, store.ErrNotFound) {
		dbUser = &db.User{
			Username:     user.Name,
			Email:        user.Email,
			UserID:       uint(rand.Intn(900000000) + 100000000), // Generate a random 9-digit integer
			AccessToken:  user.AccessToken,
			RefreshToken: user.RefreshToken,
		}
		err = s.store.CreateUser(dbUser)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Every login is a streak event.
	if _, err := s.engine.TouchLogin(dbUser.ID, time.Now()); err != nil {
		log.Printf("streak update failed for user %d: %v", dbUser.ID, err)
	}

	// Set secure cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    dbUser.AccessToken,
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	redirectURL := os.Getenv("FRONTEND_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:5173"
	}

	redirectURL = fmt.Sprintf("%s/auth/callback?username=%s&email=%s&id=%s",
		redirectURL,
		url.QueryEscape(dbUser.Username),
		url.QueryEscape(dbUser.Email),
		url.QueryEscape(strconv.Itoa(int(dbUser.UserID))))

	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

func (s *Server) logOutFunction(w http.ResponseWriter, r *http.Request) {
	gothic.Logout(w, r)

	redirectURL := os.Getenv("FRONTEND_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:5173"
	}

	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

func (s *Server) beginAuthProviderCallback(w http.ResponseWriter, r *http.Request) {
	// Begin auth flow
	gothic.BeginAuthHandler(w, r)
}

func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get auth token from cookie
		cookie, err := r.Cookie("auth_token")
		if err != nil {
			http.Error(w, "Unauthorized - No auth token", http.StatusUnauthorized)
			return
		}
		// Validate token against database
		dbUser, err := s.store.FindUserByToken(cookie.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		// Add user info to request context
		ctx := context.WithValue(r.Context(), userIDKey, dbUser.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	dbUser, err := s.store.FindUser(s.userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username":         dbUser.Username,
		"email":            dbUser.Email,
		"user_id":          dbUser.UserID,
		"points":           dbUser.Points,
		"streak":           dbUser.Streak,
		"last_active_date": dbUser.LastActiveDate,
	})
}
