package ledger

import (
	"context"
	"log/slog"

	"github.com/playperu/arcade/internal/arcade"
)

// Recorder observes applied awards. The metrics package implements it.
type Recorder interface {
	PointsAwarded(variant string, amount int)
}

// Service is the arcade.Ledger the sessions report to. The SQL ledger is
// the source of truth. The optional Board is updated best-effort and is
// read first for rankings, falling back to SQL when it fails.
type Service struct {
	store    *SQLiteLedger
	board    Board
	recorder Recorder
	logger   *slog.Logger
}

var _ arcade.Ledger = (*Service)(nil)

func NewService(store *SQLiteLedger, board Board, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{store: store, board: board, recorder: recorder, logger: logger}
}

func (s *Service) Award(ctx context.Context, ev arcade.RewardEvent) error {
	applied, err := s.store.Award(ctx, ev)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("duplicate award ignored", "session_id", ev.SessionID, "user_id", ev.UserID)
		return nil
	}
	if s.recorder != nil {
		s.recorder.PointsAwarded(ev.Variant, ev.Amount)
	}
	if s.board != nil {
		if err := s.board.Add(ctx, ev.UserID, ev.Amount); err != nil {
			s.logger.Warn("leaderboard update failed", "user_id", ev.UserID, "error", err)
		}
	}
	return nil
}

func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.Balance(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	return s.store.History(ctx, userID, limit)
}

func (s *Service) Top(ctx context.Context, limit int) ([]Standing, error) {
	if s.board != nil {
		standings, err := s.board.Top(ctx, limit)
		if err == nil {
			return standings, nil
		}
		s.logger.Warn("leaderboard read failed, using database", "error", err)
	}
	return s.store.Top(ctx, limit)
}

// SyncBoard copies the durable balances into a RedisBoard. It is a no-op
// for any other board.
func (s *Service) SyncBoard(ctx context.Context) error {
	rb, ok := s.board.(*RedisBoard)
	if !ok {
		return nil
	}
	standings, err := s.store.Top(ctx, -1)
	if err != nil {
		return err
	}
	return rb.Rebuild(ctx, standings)
}
