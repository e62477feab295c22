// Package health reports whether the service's storage backends respond.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 3 * time.Second

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

func SQL(db *sql.DB) Checker { return CheckerFunc(db.PingContext) }

func Redis(client *redis.Client) Checker {
	return CheckerFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
}

type Handler struct {
	checks map[string]Checker
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type result struct {
	Status string `json:"status"`
}

type report struct {
	Status string            `json:"status"`
	Checks map[string]result `json:"checks"`
}

// check runs every checker concurrently. One failure turns the whole report
// into 503 but the other checks still run to completion.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	var (
		mu  sync.Mutex
		rep = report{Status: "ok", Checks: make(map[string]result, len(h.checks))}
		g   errgroup.Group
	)
	for name, c := range h.checks {
		g.Go(func() error {
			res := result{Status: "ok"}
			if err := c.Check(ctx); err != nil {
				h.logger.Error("health check failed", "name", name, "error", err)
				res.Status = "error"
			}
			mu.Lock()
			rep.Checks[name] = res
			if res.Status != "ok" {
				rep.Status = "degraded"
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	status := http.StatusOK
	if rep.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(rep)
}
