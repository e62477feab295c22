package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/arcade/internal/arcade"
)

const wsMaxLifetime = 2 * time.Hour

// WSFrame is every server-to-client message on the play channel.
type WSFrame struct {
	Type     string           `json:"type"`
	Snapshot *arcade.Snapshot `json:"snapshot,omitempty"`
	Correct  *bool            `json:"correct,omitempty"`
	Flipped  *bool            `json:"flipped,omitempty"`
	Hit      *bool            `json:"hit,omitempty"`
	Error    string           `json:"error,omitempty"`
	Status   int              `json:"status,omitempty"`
}

// handleSessionWS carries commands from the client and pushes every state
// change of the session back, including deferred callbacks and clock ticks.
func handleSessionWS(logger *slog.Logger, broker *Broker, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Get(chi.URLParam(r, "sessionID"), userFrom(r))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), wsMaxLifetime)
		defer cancel()

		ch := broker.Subscribe(s.ID())
		defer broker.Unsubscribe(s.ID(), ch)

		snap := s.Snapshot()
		if err := wsjson.Write(ctx, conn, WSFrame{Type: "state", Snapshot: &snap}); err != nil {
			return
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case data := <-ch:
					var pushed arcade.Snapshot
					if err := json.Unmarshal(data, &pushed); err != nil {
						return err
					}
					if err := wsjson.Write(gctx, conn, WSFrame{Type: "state", Snapshot: &pushed}); err != nil {
						return err
					}
					if pushed.Closed {
						return conn.Close(websocket.StatusNormalClosure, "session closed")
					}
				}
			}
		})
		g.Go(func() error {
			for {
				var cmd Command
				if err := wsjson.Read(gctx, conn, &cmd); err != nil {
					return err
				}
				if err := wsjson.Write(gctx, conn, runWSCommand(logger, sessions, s, cmd)); err != nil {
					return err
				}
			}
		})

		err = g.Wait()
		if status := websocket.CloseStatus(err); status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("websocket ended", "session_id", s.ID(), "error", err)
		}
	}
}

func runWSCommand(logger *slog.Logger, sessions *Registry, s *arcade.Session, cmd Command) WSFrame {
	if err := validationError(validate.Struct(cmd)); err != nil {
		return WSFrame{Type: "error", Error: err.Error(), Status: http.StatusBadRequest}
	}

	res, err := applyCommand(s, cmd)
	if err != nil {
		if errors.Is(err, arcade.ErrTimelineOutOfOrder) {
			sessions.Changed(s)
		}
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			logger.Error("websocket command failed", "session_id", s.ID(), "error", err)
			msg = "internal error"
		}
		return WSFrame{Type: "error", Error: msg, Status: status}
	}

	snap := sessions.Changed(s)
	return WSFrame{Type: "result", Snapshot: &snap, Correct: res.correct, Flipped: res.flipped, Hit: res.hit}
}
