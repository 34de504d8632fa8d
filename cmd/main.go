// joblens: Swedish job postings explorer.
//
// Fetches postings for a keyword from the JobTech job search API, tags each
// one with skills, job type and language requirement, and serves the
// per-session results over:
//   - REST (net/http): search, filtered jobs, filter options, CSV, summary
//   - gRPC (joblens.v1.JobLens): Search, ListJobs, Summary, JobOptions
//
// Sessions live in memory (swept by cron) or in Redis when REDIS_URL is set.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"joblens/internal/config"
	"joblens/internal/db"
	"joblens/internal/grpcserver"
	"joblens/internal/scheduler"
	"joblens/internal/scraper"
	"joblens/internal/search"
	"joblens/internal/session"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[joblens] Config error: %v", err)
	}
	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Session store ────────────────────────────────────────────────────────
	var (
		store     session.Store
		storeKind string
		sched     *scheduler.Scheduler
	)
	if cfg.RedisURL != "" {
		log.Println("[joblens] Connecting to Redis…")
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[joblens] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[joblens] Redis connected ✓")
		store, storeKind = session.NewRedisStore(rdb, cfg.SessionTTL()), "redis"
	} else {
		mem := session.NewMemoryStore(cfg.SessionTTL())
		store, storeKind = mem, "memory"

		sched = scheduler.New(mem, cfg.SessionSweepMinutes)
		if err := sched.Start(); err != nil {
			log.Fatalf("[joblens] Scheduler: %v", err)
		}
	}

	// ── Search service ───────────────────────────────────────────────────────
	fetcher := scraper.NewJobTechFetcher(
		scraper.WithBaseURL(cfg.JobTechBaseURL),
		scraper.WithTimeout(cfg.FetchTimeout()),
	)
	svc := search.NewService(scraper.NewPipeline(fetcher), store)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(storeKind))

	h := search.NewHandler(svc, cfg.DefaultLimit, cfg.Locale())
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[joblens] v%s HTTP listening on :%s (sessions: %s)", version, cfg.Port, storeKind)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[joblens] HTTP server error: %v", err)
		}
	}()

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[joblens] gRPC listen: %v", err)
	}
	gsrv := grpc.NewServer()
	grpcserver.Register(gsrv, grpcserver.NewServer(svc, cfg.DefaultLimit, cfg.Locale()))

	go func() {
		log.Printf("[joblens] gRPC listening on :%s", cfg.GRPCPort)
		if err := gsrv.Serve(lis); err != nil {
			log.Fatalf("[joblens] gRPC server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[joblens] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[joblens] Shutdown error: %v", err)
	}
	gsrv.GracefulStop()
	if sched != nil {
		sched.Stop()
	}
	log.Println("[joblens] Stopped.")
}

func healthHandler(storeKind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status":   "ok",
			"service":  "joblens",
			"version":  version,
			"sessions": storeKind,
		})
	}
}
