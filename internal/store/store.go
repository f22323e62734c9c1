// Package store persists users and wishes through sqlx. The same queries run
// on Postgres and SQLite; placeholders are rebound per driver and timestamps
// are supplied by the caller in UTC.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/wishbot/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the entity store for users and wishes.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, username, first_name, is_public, share_code, created_at`

const wishColumns = `id, user_id, title, description, url, price, image_file_id, created_at, updated_at`

// UpsertUser inserts u unless a user with the same id exists, then returns the stored row.
func (s *Store) UpsertUser(ctx context.Context, u models.User) (*models.User, error) {
	q := s.db.Rebind(`INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)
	if _, err := s.db.ExecContext(ctx, q, u.ID, u.Username, u.FirstName, u.IsPublic, u.ShareCode, u.CreatedAt.UTC()); err != nil {
		return nil, fmt.Errorf("store: upsert user %d: %w", u.ID, err)
	}
	return s.GetUser(ctx, u.ID)
}

// GetUser loads a user by Telegram id.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	q := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := s.db.GetContext(ctx, &u, q, id); err != nil {
		return nil, wrapNotFound(err, "get user %d", id)
	}
	return &u, nil
}

// GetUserByShareCode loads the user owning code. The oldest account wins on
// the unlikely event of a collision.
func (s *Store) GetUserByShareCode(ctx context.Context, code string) (*models.User, error) {
	var u models.User
	q := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE share_code = ? ORDER BY created_at, id LIMIT 1`)
	if err := s.db.GetContext(ctx, &u, q, code); err != nil {
		return nil, wrapNotFound(err, "get user by share code")
	}
	return &u, nil
}

// SetUserVisibility updates the public flag of a user.
func (s *Store) SetUserVisibility(ctx context.Context, id int64, public bool) error {
	q := s.db.Rebind(`UPDATE users SET is_public = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, public, id)
	if err != nil {
		return fmt.Errorf("store: set visibility %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateWish inserts a wish for userID and returns the stored row.
func (s *Store) CreateWish(ctx context.Context, userID int64, w models.NewWish, now time.Time) (*models.Wish, error) {
	now = now.UTC()
	q := s.db.Rebind(`INSERT INTO wishes (user_id, title, description, url, price, image_file_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	var id int64
	err := s.db.QueryRowxContext(ctx, q, userID, w.Title, w.Description, w.URL, w.Price, w.ImageFileID, now, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("store: create wish for %d: %w", userID, err)
	}
	return s.GetWish(ctx, id)
}

// GetWish loads a wish by id regardless of owner.
func (s *Store) GetWish(ctx context.Context, id int64) (*models.Wish, error) {
	var w models.Wish
	q := s.db.Rebind(`SELECT ` + wishColumns + ` FROM wishes WHERE id = ?`)
	if err := s.db.GetContext(ctx, &w, q, id); err != nil {
		return nil, wrapNotFound(err, "get wish %d", id)
	}
	return &w, nil
}

// ListWishesByUser returns the wishes of userID, newest first.
func (s *Store) ListWishesByUser(ctx context.Context, userID int64) ([]models.Wish, error) {
	wishes := []models.Wish{}
	q := s.db.Rebind(`SELECT ` + wishColumns + ` FROM wishes WHERE user_id = ? ORDER BY created_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &wishes, q, userID); err != nil {
		return nil, fmt.Errorf("store: list wishes of %d: %w", userID, err)
	}
	return wishes, nil
}

// CountWishesByUser returns how many wishes userID owns.
func (s *Store) CountWishesByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	q := s.db.Rebind(`SELECT COUNT(*) FROM wishes WHERE user_id = ?`)
	if err := s.db.GetContext(ctx, &n, q, userID); err != nil {
		return 0, fmt.Errorf("store: count wishes of %d: %w", userID, err)
	}
	return n, nil
}

// UpdateWish writes the non-nil fields of upd and bumps updated_at. Empty
// optional values are stored as NULL. Returns ErrNotFound when no wish with
// that id belongs to ownerID.
func (s *Store) UpdateWish(ctx context.Context, id, ownerID int64, upd models.WishUpdate, now time.Time) (*models.Wish, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 8)
	add := func(col string, v *string, nullable bool) {
		if v == nil {
			return
		}
		sets = append(sets, col+" = ?")
		if nullable {
			args = append(args, models.Ptr(*v))
		} else {
			args = append(args, *v)
		}
	}
	add("title", upd.Title, false)
	add("description", upd.Description, true)
	add("url", upd.URL, true)
	add("price", upd.Price, true)
	add("image_file_id", upd.ImageFileID, true)
	sets = append(sets, "updated_at = ?")
	args = append(args, now.UTC(), id, ownerID)

	q := s.db.Rebind(`UPDATE wishes SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: update wish %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetWish(ctx, id)
}

// DeleteWish removes a wish owned by ownerID and reports affected rows.
func (s *Store) DeleteWish(ctx context.Context, id, ownerID int64) (int64, error) {
	q := s.db.Rebind(`DELETE FROM wishes WHERE id = ? AND user_id = ?`)
	res, err := s.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("store: delete wish %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: delete wish %d: %w", id, err)
	}
	return n, nil
}

// Stats aggregates table sizes for the admin report.
type Stats struct {
	Users        int `db:"users"`
	PublicUsers  int `db:"public_users"`
	Wishes       int `db:"wishes"`
	UsersWithAny int `db:"users_with_wishes"`
}

// Stats returns totals over users and wishes.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st, `SELECT
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM users WHERE is_public) AS public_users,
		(SELECT COUNT(*) FROM wishes) AS wishes,
		(SELECT COUNT(DISTINCT user_id) FROM wishes) AS users_with_wishes`)
	if err != nil {
		return Stats{}, fmt.Errorf("store: stats: %w", err)
	}
	return st, nil
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("store: "+format+": %w", append(args, err)...)
}
