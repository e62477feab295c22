// Package ledger credits reward points to users and ranks them.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/arcade/internal/arcade"
)

var (
	ErrInvalidAmount = errors.New("amount must be >= 0")
	ErrMissingUser   = errors.New("user id is required")
)

type Transaction struct {
	ID        string    `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	SessionID string    `json:"sessionId"`
	GameID    string    `json:"gameId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Standing struct {
	UserID string `json:"userId"`
	Points int64  `json:"points"`
	Rank   int64  `json:"rank"`
}

// SQLiteLedger is the durable points store. Every credited session leaves
// exactly one transaction row.
type SQLiteLedger struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteLedger(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db, now: time.Now}
}

// Award records ev and adds its amount to the user's balance. A second award
// for the same session is ignored and reports applied == false.
func (l *SQLiteLedger) Award(ctx context.Context, ev arcade.RewardEvent) (applied bool, err error) {
	if ev.Amount < 0 {
		return false, ErrInvalidAmount
	}
	if ev.UserID == "" {
		return false, ErrMissingUser
	}
	if ev.SessionID == "" {
		ev.SessionID = uuid.NewString()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning award: %w", err)
	}
	defer tx.Rollback()

	now := l.now().UTC().Format(time.RFC3339Nano)
	result, err := tx.ExecContext(ctx,
		`INSERT INTO point_transactions (id, user_id, amount, reason, session_id, game_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(session_id) DO NOTHING`,
		uuid.NewString(), ev.UserID, ev.Amount, ev.Reason, ev.SessionID, ev.GameID, now,
	)
	if err != nil {
		return false, fmt.Errorf("recording award: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO point_balances (user_id, balance, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET balance = balance + excluded.balance, updated_at = excluded.updated_at`,
		ev.UserID, ev.Amount, now,
	)
	if err != nil {
		return false, fmt.Errorf("updating balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing award: %w", err)
	}
	return true, nil
}

// Balance returns 0 for users that never earned anything.
func (l *SQLiteLedger) Balance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx,
		`SELECT balance FROM point_balances WHERE user_id = ?`, userID,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading balance: %w", err)
	}
	return balance, nil
}

// History lists the user's transactions, newest first.
func (l *SQLiteLedger) History(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, amount, reason, session_id, game_id, created_at FROM point_transactions
		 WHERE user_id = ? ORDER BY rowid DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	txs := []Transaction{}
	for rows.Next() {
		var (
			t       Transaction
			created string
		)
		if err := rows.Scan(&t.ID, &t.Amount, &t.Reason, &t.SessionID, &t.GameID, &created); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (l *SQLiteLedger) Top(ctx context.Context, limit int) ([]Standing, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT user_id, balance FROM point_balances ORDER BY balance DESC, user_id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ranking users: %w", err)
	}
	defer rows.Close()

	standings := []Standing{}
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.UserID, &s.Points); err != nil {
			return nil, err
		}
		s.Rank = int64(len(standings)) + 1
		standings = append(standings, s)
	}
	return standings, rows.Err()
}
