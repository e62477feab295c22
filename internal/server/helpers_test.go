package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/catalog"
	"github.com/playperu/arcade/internal/database"
	"github.com/playperu/arcade/internal/handler/health"
	"github.com/playperu/arcade/internal/ledger"
	"github.com/playperu/arcade/internal/metrics"
	"github.com/playperu/arcade/internal/migrations"
)

const (
	testAdminEmail    = "admin@playperu.com"
	testAdminPassword = "changeme"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// stepScheduler holds deferred callbacks until the test fires them.
type stepScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (s *stepScheduler) AfterFunc(_ time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	done := false
	s.queue = append(s.queue, func() {
		s.mu.Lock()
		fire := !done
		done = true
		s.mu.Unlock()
		if fire {
			f()
		}
	})
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if done {
			return false
		}
		done = true
		return true
	}
}

// flush runs everything queued so far, including callbacks queued while
// running.
func (s *stepScheduler) flush() {
	for {
		s.mu.Lock()
		q := s.queue
		s.queue = nil
		s.mu.Unlock()
		if len(q) == 0 {
			return
		}
		for _, f := range q {
			f()
		}
	}
}

type failingLedger struct {
	mu    sync.Mutex
	fails int
	calls int
	next  arcade.Ledger
}

func (l *failingLedger) Award(ctx context.Context, ev arcade.RewardEvent) error {
	l.mu.Lock()
	l.calls++
	fail := l.calls <= l.fails
	l.mu.Unlock()
	if fail {
		return io.ErrUnexpectedEOF
	}
	return l.next.Award(ctx, ev)
}

type testEnv struct {
	handler  http.Handler
	games    *catalog.Store
	points   *ledger.Service
	admin    *AdminStore
	sessions *Registry
	broker   *Broker
	metrics  *metrics.Metrics
	sched    *stepScheduler
}

type envOption func(*RegistryOptions, *testEnv)

func withLedger(wrap func(arcade.Ledger) arcade.Ledger) envOption {
	return func(o *RegistryOptions, _ *testEnv) { o.Ledger = wrap(o.Ledger) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(ctx, db, discardLogger); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	env := &testEnv{
		games:   catalog.NewStore(db),
		admin:   NewAdminStore(db),
		broker:  NewBroker(),
		metrics: metrics.New(),
		sched:   &stepScheduler{},
	}
	env.points = ledger.NewService(ledger.NewSQLiteLedger(db), nil, env.metrics, discardLogger)
	if err := Seed(ctx, discardLogger, env.admin, env.games, testAdminEmail, testAdminPassword, true); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	ropts := RegistryOptions{
		Ledger:    env.points,
		Scheduler: env.sched,
		Metrics:   env.metrics,
		NewRand:   func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	}
	for _, o := range opts {
		o(&ropts, env)
	}
	env.sessions = NewRegistry(ropts, env.broker, discardLogger)

	env.handler = NewHandler(discardLogger, Deps{
		Games:    env.games,
		Points:   env.points,
		Admin:    env.admin,
		Sessions: env.sessions,
		Broker:   env.broker,
		Metrics:  env.metrics,
		Checks:   map[string]health.Checker{"sqlite": health.SQL(db)},
	})
	return env
}

// do sends a JSON request as user. An empty user sends no identity header.
func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T, gameID, user string) arcade.Snapshot {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/games/"+gameID+"/sessions", user, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var snap arcade.Snapshot
	decode(t, w, &snap)
	return snap
}

// command sends cmd and fails the test unless it is accepted.
func (e *testEnv) command(t *testing.T, sessionID, user string, cmd Command) CommandResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/commands", user, cmd)
	if w.Code != http.StatusOK {
		t.Fatalf("command %s: expected 200, got %d: %s", cmd.Type, w.Code, w.Body.String())
	}
	var resp CommandResponse
	decode(t, w, &resp)
	return resp
}

func (e *testEnv) waitReward(t *testing.T, sessionID, user string) {
	t.Helper()
	s, err := e.sessions.Get(sessionID, user)
	if err != nil {
		t.Fatalf("session %s: %v", sessionID, err)
	}
	s.WaitReward()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v (%s)", err, w.Body.String())
	}
}

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }
