package main

import (
	"log"
	"net/http"
	"os"

	"sketchparty/internal/config"
	"sketchparty/internal/db"
	"sketchparty/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		opened, err := db.Open()
		if err != nil {
			log.Printf("database unavailable, running in-memory only: %v", err)
		} else {
			if err := db.ConfigurePool(opened, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeSeconds, cfg.DBConnMaxIdleTimeSeconds); err != nil {
				log.Printf("failed to configure db pool: %v", err)
			}
			if err := db.Migrate(opened); err != nil {
				log.Printf("database migration failed: %v", err)
			}
			conn = opened
		}
	}

	srv := server.New(conn, cfg)
	srv.RestoreRooms()
	stopReaper := srv.StartReaper()
	defer stopReaper()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}
	log.Printf("sketchparty server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
