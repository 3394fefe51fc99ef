package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"momentum-backend/internal/game"
	"momentum-backend/internal/store"
)

// How many activity-feed rows to keep per user; older rows are trimmed after
// each completion.
const activityFeedKeep = 100

type Server struct {
	port   int
	store  store.Store
	engine *game.Engine
}

func NewServer(st store.Store) *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}
	s := &Server{
		port:   port,
		store:  st,
		engine: game.NewEngine(st),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
