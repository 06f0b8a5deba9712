// main is the entry point of the students service.
//
// Startup sequence:
//  1. Load configuration (file, env vars, defaults)
//  2. Initialise the logger for the configured environment
//  3. Build the storage backend the config selects
//  4. Wrap it in the student service and register routes
//  5. Serve until SIGINT/SIGTERM, then shut down gracefully
//
// Running locally:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or zero-config (memory backend):
//
//	go run ./cmd/students-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"students-service/internal/config"
	"students-service/internal/http/handlers/student"
	"students-service/internal/service"
	"students-service/internal/storage"
	"students-service/internal/storage/jsonfile"
	"students-service/internal/storage/memory"
	"students-service/internal/storage/sqlite"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students service",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	repo, err := newStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("path", cfg.Storage.Path),
	)

	svc := service.New(repo, log)

	// Route table. The literal /search pattern takes precedence over
	// the {id} wildcard in Go 1.22's ServeMux.
	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", student.New(svc))
	router.HandleFunc("GET /api/students", student.GetList(svc))
	router.HandleFunc("GET /api/students/search", student.Search(svc))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(svc))
	router.HandleFunc("PUT /api/students/{id}", student.Update(svc))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(svc))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newStorage builds the repository backend the config selects. The
// service only ever sees the storage.Storage interface, so the choice
// is confined to this one spot.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "memory", "":
		return memory.New(), nil
	case "json":
		return jsonfile.New(cfg.Storage.Path)
	case "sqlite":
		return sqlite.New(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want memory, json, or sqlite)", cfg.Storage.Driver)
	}
}

// setupLogger returns a slog.Logger for the given environment:
// human-readable text at debug level for dev, JSON for staging/prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
