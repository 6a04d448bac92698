package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/server"
	"taskmanager/internal/service/auth"
	"taskmanager/internal/service/tasks"
	db "taskmanager/repository/db"
	inmemory "taskmanager/repository/inmemory"
)

// API is what main needs from the HTTP layer; the indirection keeps shutdown
// handling testable.
type API interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func main() {
	log.Println("Starting task management service...")

	cfg := server.ReadConfig()

	if err := RunMigrations(cfg); err != nil {
		log.Println("[WARN] Failed to apply migrations:", err)
	} else {
		log.Println("[SUCCESS] Migrations applied")
	}

	userRepo, taskRepo, err := InitializeRepositories(cfg)
	if err != nil {
		log.Fatal("[ERROR] Failed to initialize repositories:", err)
	}

	tokenCfg := auth.DefaultTokenConfig()
	if cfg.JWTSecret != "" {
		tokenCfg.Secret = cfg.JWTSecret
	}
	if cfg.TokenTTL > 0 {
		tokenCfg.TTL = cfg.TokenTTL
	}

	authSvc := auth.NewService(userRepo, auth.NewPasswordHasher(), auth.NewTokenManager(tokenCfg))
	taskSvc := tasks.NewService(taskRepo)

	api := server.NewTaskAPI(authSvc, taskSvc, cfg)
	if api == nil {
		log.Fatal("[ERROR] Failed to initialize API")
	}

	sigChan, serverErr := StartServer(api, cfg)

	select {
	case sig := <-sigChan:
		log.Printf("[INFO] Received signal %v, starting graceful shutdown...", sig)
		if err := HandleShutdown(api, sig); err != nil {
			log.Println("[ERROR] Graceful shutdown failed:", err)
		} else {
			log.Println("[SUCCESS] Graceful shutdown complete")
		}
	case err := <-serverErr:
		log.Println("[ERROR] Server error:", err)
	}

	log.Println("Service stopped")
}

// RunMigrations applies the schema migrations configured for the service.
func RunMigrations(cfg *server.Config) error {
	return db.Migration(cfg.DBStr, cfg.MigratePath)
}

// InitializeRepositories connects to Postgres and falls back to the
// in-memory store when the database is unreachable.
func InitializeRepositories(cfg *server.Config) (auth.Repository, tasks.Repository, error) {
	dbStorage, err := db.NewStorage(cfg.DBStr)
	if err != nil {
		log.Println("[WARN] Database unavailable, using in-memory storage:", err)
		inmem := inmemory.NewStorage()
		return inmem, inmem, nil
	}
	return dbStorage, dbStorage, nil
}

// StartServer launches the API in a goroutine and returns the signal and
// server-error channels main selects on.
func StartServer(api API, cfg *server.Config) (chan os.Signal, chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Service listening on %s:%d", cfg.Addr, cfg.Port)
		if err := api.Start(); err != nil {
			serverErr <- err
		}
	}()
	return sigChan, serverErr
}

// HandleShutdown drains the API with a bounded grace period.
func HandleShutdown(api API, sig os.Signal) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return api.Shutdown(shutdownCtx)
}
