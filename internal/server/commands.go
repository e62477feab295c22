package server

import (
	"fmt"

	"github.com/playperu/arcade/internal/arcade"
)

// Command is one player input. The same shape travels over HTTP and over the
// WebSocket channel.
type Command struct {
	Type     string   `json:"type" validate:"required,oneof=start select next category answer flip move order validate click"`
	Option   *int     `json:"option,omitempty" validate:"required_if=Type select,required_if=Type answer"`
	Category string   `json:"category,omitempty" validate:"required_if=Type category"`
	Tile     *int     `json:"tile,omitempty" validate:"required_if=Type flip"`
	From     *int     `json:"from,omitempty" validate:"required_if=Type move"`
	To       *int     `json:"to,omitempty" validate:"required_if=Type move"`
	Order    []string `json:"order,omitempty" validate:"required_if=Type order"`
	X        *float64 `json:"x,omitempty" validate:"required_if=Type click"`
	Y        *float64 `json:"y,omitempty" validate:"required_if=Type click"`
}

// CommandResponse is the state after a command. Correct, Flipped and Hit
// report the immediate verdict of answer, flip and click.
type CommandResponse struct {
	Snapshot arcade.Snapshot `json:"snapshot"`
	Correct  *bool           `json:"correct,omitempty"`
	Flipped  *bool           `json:"flipped,omitempty"`
	Hit      *bool           `json:"hit,omitempty"`
}

type commandResult struct {
	correct *bool
	flipped *bool
	hit     *bool
}

func (c commandResult) response(snap arcade.Snapshot) CommandResponse {
	return CommandResponse{Snapshot: snap, Correct: c.correct, Flipped: c.flipped, Hit: c.hit}
}

// applyCommand routes cmd to the session. The command must already have
// passed validation.
func applyCommand(s *arcade.Session, cmd Command) (commandResult, error) {
	var res commandResult
	switch cmd.Type {
	case "start":
		return res, s.Start()
	case "select":
		return res, s.SelectOption(*cmd.Option)
	case "next":
		return res, s.NextQuestion()
	case "category":
		return res, s.ChooseCategory(arcade.Category(cmd.Category))
	case "answer":
		ok, err := s.AnswerTrivia(*cmd.Option)
		if err == nil {
			res.correct = &ok
		}
		return res, err
	case "flip":
		ok, err := s.FlipTile(*cmd.Tile)
		if err == nil {
			res.flipped = &ok
		}
		return res, err
	case "move":
		return res, s.MoveTimelineItem(*cmd.From, *cmd.To)
	case "order":
		return res, s.ReorderTimeline(cmd.Order)
	case "validate":
		return res, s.ValidateTimeline()
	case "click":
		ok, err := s.ClickImage(*cmd.X, *cmd.Y)
		if err == nil {
			res.hit = &ok
		}
		return res, err
	}
	return res, fmt.Errorf("%w: unknown command %q", arcade.ErrInvalidInput, cmd.Type)
}
