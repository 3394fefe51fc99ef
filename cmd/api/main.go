package main

import (
	"log"

	"momentum-backend/db"
	"momentum-backend/internal/auth"
	"momentum-backend/internal/server"
	"momentum-backend/internal/store"
)

func main() {
	auth.NewAuth()
	db.ConnectDB()

	srv := server.NewServer(store.NewGormStore(db.GetDB()))

	log.Printf("listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
