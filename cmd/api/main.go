package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/totalrecall/catalog-backend/internal/config"
	"github.com/totalrecall/catalog-backend/internal/db"
	"github.com/totalrecall/catalog-backend/internal/model"
	"github.com/totalrecall/catalog-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	srv, err := server.New(cfg, nil)
	if err != nil {
		log.Fatalf("server init error: %v", err)
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// The database may lag the server (Cloud SQL cold starts); connect in
	// the background and inject the handle once it is up.
	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(&model.User{}, &model.Card{}, &model.Recommendation{}, &model.Notification{}); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
