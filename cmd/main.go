package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planner_import/internal/config"
	"planner_import/internal/handlers"
	"planner_import/internal/repository/database"
	"planner_import/internal/server"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Init(setupCtx)
	fmt.Println("✅ All connections successfully established!")

	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Fatalf("❌ Connection check failed: %v", err)
	}
	fmt.Println("🟢 All connections OK")

	if err := database.EnsureSchema(setupCtx, cfg.Postgres.Pool); err != nil {
		log.Fatalf("❌ Schema setup failed: %v", err)
	}

	h := handlers.New(cfg.Postgres, cfg.Mongo, cfg.S3)
	srv := server.NewServer(cfg.Port, h)

	if err := srv.Run(runCtx); err != nil {
		log.Fatal(err)
	}
}
