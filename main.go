package main

import (
	"context"
	"fmt"
	"log"

	"github.com/charfaouimohammed/Atend-X/internal/config"
	"github.com/charfaouimohammed/Atend-X/internal/database"
	"github.com/charfaouimohammed/Atend-X/internal/router"
	"github.com/charfaouimohammed/Atend-X/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// connect document store
	ctx := context.Background()
	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("disconnect database: %v", err)
		}
	}()

	// indexes back the uniqueness and exclusivity invariants
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	stores := store.NewMongoStores(db)

	// setup router
	r := router.SetupRouter(cfg, stores)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
