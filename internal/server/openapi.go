package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/ledger"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse documents GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Checks map[string]struct {
		Status string `json:"status"`
	} `json:"checks"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               []response
}

type response struct {
	status      int
	body        any
	contentType string
}

func respOK(body any) response { return response{status: http.StatusOK, body: body} }
func respErr(code int) response { return response{status: code, body: ErrorResponse{}} }
func respWith(code int, b any) response { return response{status: code, body: b} }

// Request shapes that only exist for documentation.
type gamePath struct {
	GameID string `path:"gameID"`
}

type sessionPath struct {
	SessionID string `path:"sessionID"`
}

type commandRequest struct {
	SessionID string `path:"sessionID"`
	Command
}

type streamRequest struct {
	SessionID string `path:"sessionID"`
	User      string `query:"user" description:"Alternative to X-User-ID for clients that cannot set headers."`
}

type leaderboardRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100"`
}

type adminGameRequest struct {
	GameID string `path:"gameID"`
	AdminGame
}

type adminStatusRequest struct {
	GameID string `path:"gameID"`
	AdminStatusRequest
}

const userNote = " Requires the X-User-ID header."
const adminNote = " Requires admin_session cookie."

var operations = []operation{
	{http.MethodGet, "/healthz", "Health check", "Returns the health status of backend dependencies.", nil,
		[]response{respOK(HealthResponse{}), respWith(http.StatusServiceUnavailable, HealthResponse{})}},
	{http.MethodGet, "/metrics", "Prometheus metrics", "Session, reward and HTTP metrics in text exposition format.", nil,
		[]response{{status: http.StatusOK, contentType: "text/plain"}}},

	{http.MethodGet, "/api/games", "List games", "Active games in the catalog." + userNote, nil,
		[]response{respOK([]GameSummary{}), respErr(http.StatusUnauthorized)}},
	{http.MethodGet, "/api/games/{gameID}", "Get game", "Player-safe detail of an active game." + userNote, gamePath{},
		[]response{respOK(GameDetail{}), respErr(http.StatusNotFound)}},
	{http.MethodPost, "/api/games/{gameID}/sessions", "Create session",
		"Creates a play session of the game in the intro phase, owned by the caller." + userNote, gamePath{},
		[]response{respWith(http.StatusCreated, arcade.Snapshot{}), respErr(http.StatusNotFound), respErr(http.StatusUnprocessableEntity)}},

	{http.MethodGet, "/api/sessions/{sessionID}", "Get session", "Current snapshot of the caller's session." + userNote, sessionPath{},
		[]response{respOK(arcade.Snapshot{}), respErr(http.StatusNotFound)}},
	{http.MethodDelete, "/api/sessions/{sessionID}", "Close session",
		"Ends the session and cancels pending animations. Unfinished sessions earn nothing." + userNote, sessionPath{},
		[]response{{status: http.StatusNoContent}, respErr(http.StatusNotFound)}},
	{http.MethodPost, "/api/sessions/{sessionID}/commands", "Send command",
		"Applies one player input: start, select, next, category, answer, flip, move, order, validate or click." + userNote,
		commandRequest{},
		[]response{
			respOK(CommandResponse{}),
			respErr(http.StatusBadRequest),
			respErr(http.StatusNotFound),
			respErr(http.StatusConflict),
			respErr(http.StatusUnprocessableEntity),
		}},
	{http.MethodPost, "/api/sessions/{sessionID}/reward/retry", "Retry reward",
		"Re-sends a reward whose delivery to the points ledger failed." + userNote, sessionPath{},
		[]response{respWith(http.StatusAccepted, arcade.Snapshot{}), respErr(http.StatusConflict), respErr(http.StatusNotFound)}},
	{http.MethodGet, "/api/sessions/{sessionID}/events", "Session events",
		"Server-Sent Events stream of session snapshots. Browsers may pass ?user= instead of the header.", streamRequest{},
		[]response{{status: http.StatusOK, contentType: "text/event-stream"}}},
	{http.MethodGet, "/api/sessions/{sessionID}/ws", "Session WebSocket",
		"Upgrades to a WebSocket. The client sends commands, the server sends result, error and state frames.", streamRequest{},
		[]response{{status: http.StatusSwitchingProtocols, contentType: "application/json"}}},

	{http.MethodGet, "/api/me/points", "My points", "Balance and latest credits of the caller." + userNote, nil,
		[]response{respOK(PointsResponse{}), respErr(http.StatusUnauthorized)}},
	{http.MethodGet, "/api/leaderboard", "Leaderboard", "Top point balances. limit defaults to 10, max 100." + userNote, leaderboardRequest{},
		[]response{respOK([]ledger.Standing{}), respErr(http.StatusBadRequest)}},

	{http.MethodPost, "/api/admin/login", "Admin login", "Authenticate with email and password. Sets admin_session cookie.",
		AdminLoginRequest{},
		[]response{respOK(AdminMeResponse{}), respErr(http.StatusUnauthorized)}},
	{http.MethodPost, "/api/admin/logout", "Admin logout", "Clears admin session and cookie.", nil,
		[]response{{status: http.StatusOK}}},
	{http.MethodGet, "/api/admin/me", "Current admin", "Returns the currently authenticated admin." + adminNote, nil,
		[]response{respOK(AdminMeResponse{}), respErr(http.StatusUnauthorized)}},
	{http.MethodGet, "/api/admin/games", "List all games", "Every definition, drafts included, answers included." + adminNote, nil,
		[]response{respOK([]AdminGame{}), respErr(http.StatusUnauthorized)}},
	{http.MethodGet, "/api/admin/games/{gameID}", "Get game definition", "Full definition." + adminNote, gamePath{},
		[]response{respOK(AdminGame{}), respErr(http.StatusNotFound), respErr(http.StatusUnauthorized)}},
	{http.MethodPut, "/api/admin/games/{gameID}", "Save game",
		"Creates or replaces a definition. Unplayable definitions are rejected with 422." + adminNote,
		adminGameRequest{},
		[]response{respOK(AdminGame{}), respErr(http.StatusBadRequest), respErr(http.StatusUnprocessableEntity), respErr(http.StatusUnauthorized)}},
	{http.MethodPut, "/api/admin/games/{gameID}/status", "Set game status", "Activates or deactivates a game." + adminNote,
		adminStatusRequest{},
		[]response{respOK(AdminGame{}), respErr(http.StatusNotFound), respErr(http.StatusUnauthorized)}},
	{http.MethodDelete, "/api/admin/games/{gameID}", "Delete game", "Removes a definition. Running sessions keep their copy." + adminNote, gamePath{},
		[]response{{status: http.StatusOK}, respErr(http.StatusNotFound), respErr(http.StatusUnauthorized)}},
}

// newOpenAPISpec reflects every operation. It returns the spec built so far
// together with any operation that failed to reflect.
func newOpenAPISpec() (*openapi3.Spec, error) {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Arcade API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Game sessions, rewards and catalog administration for the intranet arcade.")

	var errs []error
	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", op.method, op.path, err))
			continue
		}
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		for _, resp := range op.resp {
			opts := []openapi.ContentOption{openapi.WithHTTPStatus(resp.status)}
			if resp.contentType != "" {
				opts = append(opts, openapi.WithContentType(resp.contentType))
			}
			oc.AddRespStructure(resp.body, opts...)
		}
		if err := r.AddOperation(oc); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", op.method, op.path, err))
		}
	}
	return r.Spec, errors.Join(errs...)
}

func handleOpenAPI() http.HandlerFunc {
	spec, _ := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
