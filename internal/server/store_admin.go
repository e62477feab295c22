package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

// AdminStore keeps catalog administrators and their cookie sessions.
type AdminStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// EnsureAdmin creates the admin account or resets its password.
func (s *AdminStore) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash`,
		uuid.NewString(), normalizeEmail(email), string(hash), s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing admin: %w", err)
	}
	return nil
}

// Login checks the credentials and opens a new session.
func (s *AdminStore) Login(ctx context.Context, email, password string) (adminSession, error) {
	email = normalizeEmail(email)

	var adminID, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM admins WHERE email = ?`, email,
	).Scan(&adminID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errInvalidCredentials
	}
	if err != nil {
		return adminSession{}, fmt.Errorf("loading admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return adminSession{}, errInvalidCredentials
	}

	sess := adminSession{SessionID: uuid.NewString(), AdminID: adminID, Email: email}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, admin_id, created_at) VALUES (?, ?, ?)`,
		sess.SessionID, adminID, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return adminSession{}, fmt.Errorf("creating admin session: %w", err)
	}
	return sess, nil
}

func (s *AdminStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *AdminStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	sess := adminSession{SessionID: sessionID}
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}
	return sess, nil
}
