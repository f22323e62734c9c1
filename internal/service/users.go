package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/wishbot/core/logger"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/store"
)

// UserStore is the persistence the user service needs.
type UserStore interface {
	UpsertUser(ctx context.Context, u models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByShareCode(ctx context.Context, code string) (*models.User, error)
	SetUserVisibility(ctx context.Context, id int64, public bool) error
	Stats(ctx context.Context) (store.Stats, error)
}

// Users manages accounts and wishlist visibility.
type Users struct {
	store UserStore
	now   func() time.Time
}

// NewUsers wraps a UserStore. now defaults to time.Now.
func NewUsers(s UserStore, now func() time.Time) *Users {
	if now == nil {
		now = time.Now
	}
	return &Users{store: s, now: now}
}

// GetOrCreate returns the user with id, creating a public account on first sight.
func (s *Users) GetOrCreate(ctx context.Context, id int64, username, firstName string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	u, err = s.store.UpsertUser(ctx, models.User{
		ID:        id,
		Username:  models.Ptr(strings.TrimPrefix(username, "@")),
		FirstName: firstName,
		IsPublic:  true,
		ShareCode: ShareCode(id),
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "user.create",
		slog.String("status", "ok"),
		slog.Int64("user_id", id),
	)
	return u, nil
}

// Get returns the user with id or ErrUserNotFound.
func (s *Users) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// ResolveShareCode finds the owner of a share code.
func (s *Users) ResolveShareCode(ctx context.Context, code string) (*models.User, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !validShareCode(code) {
		return nil, ErrUserNotFound
	}
	u, err := s.store.GetUserByShareCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// SetPublic changes whether the wishlist of id can be viewed through its share link.
func (s *Users) SetPublic(ctx context.Context, id int64, public bool) error {
	err := s.store.SetUserVisibility(ctx, id, public)
	if errors.Is(err, store.ErrNotFound) {
		err = ErrUserNotFound
	}
	logger.LogEvent(ctx, logger.SVCUsers, slog.LevelInfo, "user.visibility",
		slog.String("status", logger.Status(err)),
		slog.Int64("user_id", id),
		slog.Bool("public", public),
	)
	return err
}

// Stats returns aggregate counters for the admin report.
func (s *Users) Stats(ctx context.Context) (store.Stats, error) {
	return s.store.Stats(ctx)
}

func validShareCode(code string) bool {
	if len(code) != ShareCodeLength {
		return false
	}
	for _, r := range code {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
