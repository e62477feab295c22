package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/ledger"
)

func TestQuizSessionAwardsProportionalPoints(t *testing.T) {
	env := newTestEnv(t)
	snap := env.createSession(t, "welcome-quiz", "ana")
	if snap.Phase != arcade.PhaseIntro {
		t.Fatalf("expected intro phase, got %s", snap.Phase)
	}
	id := snap.SessionID

	env.command(t, id, "ana", Command{Type: "start"})

	// Single choice: right answer, then the advance animation.
	resp := env.command(t, id, "ana", Command{Type: "select", Option: intp(0)})
	if !resp.Snapshot.Quiz.Advancing {
		t.Fatal("expected the question to be advancing")
	}
	env.sched.flush()

	// Multi choice needs an explicit next.
	env.command(t, id, "ana", Command{Type: "select", Option: intp(0)})
	resp = env.command(t, id, "ana", Command{Type: "select", Option: intp(2)})
	if !resp.Snapshot.Quiz.CanAdvance {
		t.Fatal("expected canAdvance after selecting")
	}
	env.command(t, id, "ana", Command{Type: "next"})

	// True/false: wrong.
	env.command(t, id, "ana", Command{Type: "select", Option: intp(1)})
	env.sched.flush()
	env.waitReward(t, id, "ana")

	w := env.do(t, http.MethodGet, "/api/sessions/"+id, "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	decode(t, w, &snap)
	if snap.Phase != arcade.PhaseFinished {
		t.Fatalf("expected finished, got %s", snap.Phase)
	}
	if snap.Outcome == nil || snap.Outcome.CorrectCount != 2 || snap.Outcome.TotalCount != 3 {
		t.Fatalf("unexpected outcome: %+v", snap.Outcome)
	}
	if snap.Outcome.PointsAwarded != 67 {
		t.Errorf("expected 67 points, got %d", snap.Outcome.PointsAwarded)
	}
	if snap.Reward.Status != arcade.RewardSent {
		t.Errorf("expected reward sent, got %s", snap.Reward.Status)
	}

	var points PointsResponse
	w = env.do(t, http.MethodGet, "/api/me/points", "ana", nil)
	decode(t, w, &points)
	if points.Balance != 67 {
		t.Errorf("expected balance 67, got %d", points.Balance)
	}
	if len(points.History) != 1 || points.History[0].Reason != "Quiz score: 2/3" {
		t.Errorf("unexpected history: %+v", points.History)
	}
}

func TestTrivialSessionNeedsEveryCategory(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "friday-trivia", "luis").SessionID
	env.command(t, id, "luis", Command{Type: "start"})

	// A wrong answer keeps the category open.
	env.command(t, id, "luis", Command{Type: "category", Category: "geography"})
	resp := env.command(t, id, "luis", Command{Type: "answer", Option: intp(1)})
	if resp.Correct == nil || *resp.Correct {
		t.Fatalf("expected a wrong verdict, got %v", resp.Correct)
	}
	if len(resp.Snapshot.Trivial.Earned) != 0 {
		t.Fatalf("expected nothing earned, got %v", resp.Snapshot.Trivial.Earned)
	}

	for _, c := range arcade.TrivialCategories {
		env.command(t, id, "luis", Command{Type: "category", Category: string(c)})
		resp = env.command(t, id, "luis", Command{Type: "answer", Option: intp(0)})
		if resp.Correct == nil || !*resp.Correct {
			t.Fatalf("category %s: expected a correct verdict", c)
		}
	}
	if resp.Snapshot.Phase != arcade.PhaseFinished {
		t.Fatalf("expected finished, got %s", resp.Snapshot.Phase)
	}
	if resp.Snapshot.Outcome.PointsAwarded != 150 {
		t.Errorf("expected 150 points, got %d", resp.Snapshot.Outcome.PointsAwarded)
	}

	env.waitReward(t, id, "luis")
	balance, err := env.points.Balance(t.Context(), "luis")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 150 {
		t.Errorf("expected balance 150, got %d", balance)
	}
}

func TestTimelineSessionValidation(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "company-timeline", "eva").SessionID
	env.command(t, id, "eva", Command{Type: "start"})

	env.command(t, id, "eva", Command{Type: "order", Order: []string{"intranet", "lima-office", "first-client", "founded"}})
	w := env.do(t, http.MethodPost, "/api/sessions/"+id+"/commands", "eva", Command{Type: "validate"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an unordered timeline, got %d", w.Code)
	}

	var snap arcade.Snapshot
	decode(t, env.do(t, http.MethodGet, "/api/sessions/"+id, "eva", nil), &snap)
	if !snap.Timeline.ValidationFailed {
		t.Fatal("expected validationFailed after a wrong order")
	}
	for _, e := range snap.Timeline.Order {
		if e.Year != nil {
			t.Fatalf("year of %s leaked while playing", e.ID)
		}
	}

	// Two moves restore the chronological order.
	env.command(t, id, "eva", Command{Type: "order", Order: []string{"lima-office", "first-client", "founded", "intranet"}})
	env.command(t, id, "eva", Command{Type: "move", From: intp(2), To: intp(0)})
	env.command(t, id, "eva", Command{Type: "move", From: intp(2), To: intp(1)})
	resp := env.command(t, id, "eva", Command{Type: "validate"})
	if resp.Snapshot.Phase != arcade.PhaseFinished {
		t.Fatalf("expected finished, got %s", resp.Snapshot.Phase)
	}
	if resp.Snapshot.Timeline.Order[0].Year == nil || *resp.Snapshot.Timeline.Order[0].Year != 2004 {
		t.Errorf("expected years revealed once finished")
	}
	if resp.Snapshot.Outcome.PointsAwarded != 80 {
		t.Errorf("expected 80 points, got %d", resp.Snapshot.Outcome.PointsAwarded)
	}
}

func TestHiddenObjectsSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "desk-hunt", "rosa").SessionID
	env.command(t, id, "rosa", Command{Type: "start"})

	// The stapler is not pending yet.
	resp := env.command(t, id, "rosa", Command{Type: "click", X: floatp(55), Y: floatp(40)})
	if resp.Hit == nil || *resp.Hit {
		t.Fatal("expected a click on a later object to miss")
	}

	clicks := [][2]float64{{18, 62}, {56, 41}, {84, 22}}
	for _, c := range clicks {
		resp = env.command(t, id, "rosa", Command{Type: "click", X: floatp(c[0]), Y: floatp(c[1])})
		if resp.Hit == nil || !*resp.Hit {
			t.Fatalf("expected a hit at %v", c)
		}
	}
	if resp.Snapshot.Phase != arcade.PhaseFinished {
		t.Fatalf("expected finished, got %s", resp.Snapshot.Phase)
	}
	if len(resp.Snapshot.HiddenObjects.Found) != 3 {
		t.Errorf("expected 3 found objects, got %d", len(resp.Snapshot.HiddenObjects.Found))
	}
	if resp.Snapshot.Outcome.PointsAwarded != 60 {
		t.Errorf("expected 60 points, got %d", resp.Snapshot.Outcome.PointsAwarded)
	}
}

func TestMemorySessionHidesFaceDownTiles(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "team-memory", "pia").SessionID
	resp := env.command(t, id, "pia", Command{Type: "start"})

	if len(resp.Snapshot.Memory.Tiles) != 12 {
		t.Fatalf("expected 12 tiles, got %d", len(resp.Snapshot.Memory.Tiles))
	}
	for _, tile := range resp.Snapshot.Memory.Tiles {
		if tile.Content != "" {
			t.Fatalf("tile %d shows content while face down", tile.Index)
		}
	}

	resp = env.command(t, id, "pia", Command{Type: "flip", Tile: intp(0)})
	if resp.Flipped == nil || !*resp.Flipped {
		t.Fatal("expected the flip to be accepted")
	}
	if resp.Snapshot.Memory.Tiles[0].Content == "" {
		t.Error("expected the flipped tile to show its content")
	}
}

func TestSessionCommandErrors(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "welcome-quiz", "ana").SessionID
	path := "/api/sessions/" + id + "/commands"

	tests := []struct {
		name   string
		user   string
		body   any
		status int
	}{
		{"before start", "ana", Command{Type: "select", Option: intp(0)}, http.StatusConflict},
		{"unknown type", "ana", map[string]string{"type": "jump"}, http.StatusBadRequest},
		{"missing option", "ana", Command{Type: "select"}, http.StatusBadRequest},
		{"malformed body", "ana", "not an object", http.StatusBadRequest},
		{"other user", "bob", Command{Type: "start"}, http.StatusNotFound},
		{"no identity", "", Command{Type: "start"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, path, tt.user, tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}

	env.command(t, id, "ana", Command{Type: "start"})
	w := env.do(t, http.MethodPost, path, "ana", Command{Type: "start"})
	if w.Code != http.StatusConflict {
		t.Errorf("second start: expected 409, got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, path, "ana", Command{Type: "flip", Tile: intp(0)})
	if w.Code != http.StatusConflict {
		t.Errorf("wrong variant: expected 409, got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, path, "ana", Command{Type: "select", Option: intp(9)})
	if w.Code != http.StatusBadRequest {
		t.Errorf("option out of range: expected 400, got %d", w.Code)
	}
}

func TestCloseSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t, "desk-hunt", "ana").SessionID
	env.command(t, id, "ana", Command{Type: "start"})

	if w := env.do(t, http.MethodDelete, "/api/sessions/"+id, "bob", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 closing someone else's session, got %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/api/sessions/"+id, "ana", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/sessions/"+id, "ana", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", w.Code)
	}
	if env.sessions.Len() != 0 {
		t.Errorf("expected no hosted sessions, got %d", env.sessions.Len())
	}
}

func TestCreateSessionForMissingOrDraftGame(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.games.SetActive(t.Context(), "team-memory", false); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"no-such-game", "team-memory"} {
		w := env.do(t, http.MethodPost, "/api/games/"+id+"/sessions", "ana", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", id, w.Code)
		}
	}
}

func TestRetryFailedReward(t *testing.T) {
	var fl *failingLedger
	env := newTestEnv(t, withLedger(func(next arcade.Ledger) arcade.Ledger {
		fl = &failingLedger{fails: 1, next: next}
		return fl
	}))
	id := env.createSession(t, "desk-hunt", "ana").SessionID
	path := "/api/sessions/" + id + "/reward/retry"

	if w := env.do(t, http.MethodPost, path, "ana", nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 before any reward, got %d", w.Code)
	}

	env.command(t, id, "ana", Command{Type: "start"})
	for _, c := range [][2]float64{{18, 62}, {55, 40}, {84, 22}} {
		env.command(t, id, "ana", Command{Type: "click", X: floatp(c[0]), Y: floatp(c[1])})
	}
	env.waitReward(t, id, "ana")

	var snap arcade.Snapshot
	decode(t, env.do(t, http.MethodGet, "/api/sessions/"+id, "ana", nil), &snap)
	if snap.Reward.Status != arcade.RewardFailed {
		t.Fatalf("expected failed reward, got %s", snap.Reward.Status)
	}

	w := env.do(t, http.MethodPost, path, "ana", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	env.waitReward(t, id, "ana")

	decode(t, env.do(t, http.MethodGet, "/api/sessions/"+id, "ana", nil), &snap)
	if snap.Reward.Status != arcade.RewardSent {
		t.Fatalf("expected sent reward, got %s", snap.Reward.Status)
	}
	if w := env.do(t, http.MethodPost, path, "ana", nil); w.Code != http.StatusConflict {
		t.Errorf("expected 409 once sent, got %d", w.Code)
	}
	if fl.calls != 2 {
		t.Errorf("expected 2 ledger calls, got %d", fl.calls)
	}

	balance, err := env.points.Balance(t.Context(), "ana")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 60 {
		t.Errorf("expected balance 60, got %d", balance)
	}
}

func TestListGamesHidesAnswers(t *testing.T) {
	env := newTestEnv(t)

	var games []GameSummary
	w := env.do(t, http.MethodGet, "/api/games", "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	decode(t, w, &games)
	if len(games) != 5 {
		t.Fatalf("expected 5 demo games, got %d", len(games))
	}

	w = env.do(t, http.MethodGet, "/api/games/welcome-quiz", "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "correct") || strings.Contains(body, "options") {
		t.Errorf("game detail leaks answers: %s", body)
	}
}

func TestLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	for _, user := range []string{"ana", "bob"} {
		id := env.createSession(t, "desk-hunt", user).SessionID
		env.command(t, id, user, Command{Type: "start"})
		for _, c := range [][2]float64{{18, 62}, {55, 40}, {84, 22}} {
			env.command(t, id, user, Command{Type: "click", X: floatp(c[0]), Y: floatp(c[1])})
		}
		env.waitReward(t, id, user)
	}
	id := env.createSession(t, "company-timeline", "bob").SessionID
	env.command(t, id, "bob", Command{Type: "start"})
	env.command(t, id, "bob", Command{Type: "order", Order: []string{"founded", "first-client", "lima-office", "intranet"}})
	env.command(t, id, "bob", Command{Type: "validate"})
	env.waitReward(t, id, "bob")

	var top []ledger.Standing
	w := env.do(t, http.MethodGet, "/api/leaderboard?limit=1", "ana", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	decode(t, w, &top)
	if len(top) != 1 || top[0].UserID != "bob" || top[0].Points != 140 {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}

	for _, q := range []string{"0", "101", "ten"} {
		if w := env.do(t, http.MethodGet, "/api/leaderboard?limit="+q, "ana", nil); w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", q, w.Code)
		}
	}
}
