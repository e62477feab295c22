package arcade

import (
	"errors"
	"fmt"
)

// Definition errors. They surface before any session exists.
var (
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrMissingPayload    = errors.New("missing or too small variant payload")
	ErrInvalidDefinition = errors.New("invalid definition")
)

// Play-time errors. None of them leave a session in a corrupt state.
var (
	ErrAlreadyStarted      = errors.New("session already started")
	ErrNotPlaying          = errors.New("session is not playing")
	ErrWrongVariant        = errors.New("input does not apply to this game variant")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoQuestionAvailable = errors.New("no question available for this category")
	ErrTimelineOutOfOrder  = errors.New("timeline is not in chronological order")
	ErrSessionClosed       = errors.New("session closed")
	ErrNoRewardToRetry     = errors.New("no failed reward to retry")
)

// DefinitionError reports which part of a definition is unusable.
type DefinitionError struct {
	Field  string
	Err    error
	Detail string
}

func (e *DefinitionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Detail)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// IsDefinitionError reports whether err prevents a session from being created.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}

func invalid(field, format string, args ...any) error {
	return &DefinitionError{Field: field, Err: ErrInvalidDefinition, Detail: fmt.Sprintf(format, args...)}
}

func missing(field, format string, args ...any) error {
	return &DefinitionError{Field: field, Err: ErrMissingPayload, Detail: fmt.Sprintf(format, args...)}
}
