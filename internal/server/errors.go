package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/arcade/internal/arcade"
	"github.com/playperu/arcade/internal/catalog"
)

var errSessionNotFound = errors.New("session not found")

// statusFor maps engine and store errors to HTTP status codes. Anything it
// does not recognise is a 500.
func statusFor(err error) int {
	switch {
	case arcade.IsDefinitionError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, arcade.ErrNotPlaying),
		errors.Is(err, arcade.ErrAlreadyStarted),
		errors.Is(err, arcade.ErrWrongVariant),
		errors.Is(err, arcade.ErrSessionClosed),
		errors.Is(err, arcade.ErrNoRewardToRetry):
		return http.StatusConflict
	case errors.Is(err, arcade.ErrInvalidInput), errors.Is(err, catalog.ErrMissingID):
		return http.StatusBadRequest
	case errors.Is(err, arcade.ErrNoQuestionAvailable), errors.Is(err, arcade.ErrTimelineOutOfOrder):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeFailure writes err with the mapped status. Internal errors are logged
// and hidden from the client.
func writeFailure(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
