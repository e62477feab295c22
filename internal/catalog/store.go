package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/arcade/internal/arcade"
)

var (
	ErrNotFound  = errors.New("game not found")
	ErrMissingID = errors.New("game id is required")
)

// Store keeps one JSONB document per game definition. The variant and
// status are duplicated into columns for filtering.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Put validates def and inserts or replaces it.
func (s *Store) Put(ctx context.Context, def arcade.Definition) error {
	if def.ID == "" {
		return ErrMissingID
	}
	if err := arcade.Validate(def); err != nil {
		return err
	}

	rec := fromDefinition(def)
	rec.UpdatedAt = s.now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding game %q: %w", def.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_definitions (id, variant, status, data, updated_at) VALUES (?, ?, ?, jsonb(?), ?)
		 ON CONFLICT(id) DO UPDATE SET variant = excluded.variant, status = excluded.status,
		 data = excluded.data, updated_at = excluded.updated_at`,
		rec.ID, rec.Variant, rec.Status, string(data), rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("storing game %q: %w", def.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (arcade.Definition, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM game_definitions WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return arcade.Definition{}, ErrNotFound
	}
	if err != nil {
		return arcade.Definition{}, fmt.Errorf("loading game %q: %w", id, err)
	}
	return decode(data)
}

// GetActive returns the definition only when it is open for play.
func (s *Store) GetActive(ctx context.Context, id string) (arcade.Definition, error) {
	def, err := s.Get(ctx, id)
	if err != nil {
		return def, err
	}
	if !def.Active {
		return arcade.Definition{}, ErrNotFound
	}
	return def, nil
}

// ListActive is the point-in-time catalog shown to players.
func (s *Store) ListActive(ctx context.Context) ([]arcade.Definition, error) {
	return s.list(ctx, `SELECT json(data) FROM game_definitions WHERE status = 'active' ORDER BY id`)
}

// List returns every definition, drafts included.
func (s *Store) List(ctx context.Context) ([]arcade.Definition, error) {
	return s.list(ctx, `SELECT json(data) FROM game_definitions ORDER BY id`)
}

func (s *Store) list(ctx context.Context, query string) ([]arcade.Definition, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var defs []arcade.Definition
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		def, err := decode(data)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

func (s *Store) SetActive(ctx context.Context, id string, active bool) (arcade.Definition, error) {
	def, err := s.Get(ctx, id)
	if err != nil {
		return def, err
	}
	def.Active = active
	if err := s.Put(ctx, def); err != nil {
		return arcade.Definition{}, err
	}
	return def, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM game_definitions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting game %q: %w", id, err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_definitions`).Scan(&n)
	return n, err
}

func decode(data string) (arcade.Definition, error) {
	var rec definitionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return arcade.Definition{}, fmt.Errorf("decoding game: %w", err)
	}
	return toDefinition(rec)
}
