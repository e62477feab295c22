package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleEvents streams the session's snapshots as SSE "state" events,
// starting with the current one. The stream ends after the closing snapshot.
func handleEvents(broker *Broker, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Get(chi.URLParam(r, "sessionID"), userFrom(r))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ch := broker.Subscribe(s.ID())
		defer broker.Unsubscribe(s.ID(), ch)

		initial, _ := json.Marshal(s.Snapshot())
		fmt.Fprintf(w, "event: state\ndata: %s\n\n", initial)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
				var snap struct {
					Closed bool `json:"closed"`
				}
				if json.Unmarshal(data, &snap) == nil && snap.Closed {
					return
				}
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
