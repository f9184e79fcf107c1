package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shabelski89/pushups/internal/exercise"
	"github.com/shabelski89/pushups/internal/models"
)

// Store is the single shared mutable resource of the process: a user
// registry plus an append-only log of workout entries. Works against
// Postgres and SQLite; the SQL sticks to what both speak.
type Store struct {
	DB *sql.DB
}

func New(d *sql.DB) *Store {
	return &Store{DB: d}
}

// RegisterUser upserts a user by id. Re-registration overwrites the display
// fields and keeps created_at, so registration order is stable.
func (s *Store) RegisterUser(ctx context.Context, u models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name`,
		u.ID, u.Username, u.FirstName, u.LastName, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("register user %d: %w", u.ID, err)
	}
	return nil
}

// RecordEntry appends one entry. Entries are never updated in place;
// a day's total is the sum over all of them.
func (s *Store) RecordEntry(ctx context.Context, userID int64, kind exercise.Kind, day string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %d", exercise.ErrInvalidValue, value)
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO entries (user_id, exercise, day, value)
		VALUES ($1, $2, $3, $4)`,
		userID, string(kind), day, value,
	)
	if err != nil {
		return fmt.Errorf("record entry: %w", err)
	}
	return nil
}

// ReplaceLastEntry drops the most recently inserted entry for the key and
// inserts newValue, in one transaction so a concurrent reader never sees the
// half-applied state. With no prior entry it degenerates to a plain insert.
// Backs the "edited message" path, where the transport cannot hand us a row
// identity.
func (s *Store) ReplaceLastEntry(ctx context.Context, userID int64, kind exercise.Kind, day string, newValue int) error {
	if newValue <= 0 {
		return fmt.Errorf("%w: %d", exercise.ErrInvalidValue, newValue)
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace entry: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM entries WHERE id = (
			SELECT id FROM entries
			WHERE user_id = $1 AND exercise = $2 AND day = $3
			ORDER BY id DESC LIMIT 1
		)`,
		userID, string(kind), day,
	)
	if err != nil {
		return fmt.Errorf("replace entry: delete: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (user_id, exercise, day, value)
		VALUES ($1, $2, $3, $4)`,
		userID, string(kind), day, newValue,
	)
	if err != nil {
		return fmt.Errorf("replace entry: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace entry: commit: %w", err)
	}
	return nil
}

// SumForDay returns the user's total for one exercise on one day, 0 when
// nothing was logged.
func (s *Store) SumForDay(ctx context.Context, userID int64, kind exercise.Kind, day string) (int, error) {
	var total int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(value), 0) FROM entries
		WHERE user_id = $1 AND exercise = $2 AND day = $3`,
		userID, string(kind), day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum for day: %w", err)
	}
	return total, nil
}

// AllUsers lists the registry in registration order.
func (s *Store) AllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, username, first_name, last_name, created_at
		FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("all users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("all users: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("all users: %w", err)
	}
	return users, nil
}

// TotalsForDay aggregates one exercise for one day across the whole registry,
// in a single query so every total comes from one consistent read. Users with
// no entries appear with total 0, in registration order.
func (s *Store) TotalsForDay(ctx context.Context, kind exercise.Kind, day string) ([]models.UserTotal, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT u.id, u.username, u.first_name, u.last_name, u.created_at,
			COALESCE(SUM(e.value), 0)
		FROM users u
		LEFT JOIN entries e
			ON e.user_id = u.id AND e.exercise = $1 AND e.day = $2
		GROUP BY u.id, u.username, u.first_name, u.last_name, u.created_at
		ORDER BY u.created_at, u.id`,
		string(kind), day,
	)
	if err != nil {
		return nil, fmt.Errorf("totals for day: %w", err)
	}
	defer rows.Close()

	var totals []models.UserTotal
	for rows.Next() {
		var t models.UserTotal
		err := rows.Scan(
			&t.User.ID, &t.User.Username, &t.User.FirstName, &t.User.LastName,
			&t.User.CreatedAt, &t.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("totals for day: scan: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("totals for day: %w", err)
	}
	return totals, nil
}
