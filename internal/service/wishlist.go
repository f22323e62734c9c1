// Package service holds the wishlist business rules: validation, the per-user
// quota, ownership checks and the read-through wish list cache.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/wishbot/core/logger"
	"github.com/m3rciful/wishbot/core/metrics"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/store"
)

// DefaultMaxWishes is the per-user quota used when none is configured.
const DefaultMaxWishes = 100

// WishStore is the persistence the wishlist service needs.
type WishStore interface {
	CountWishesByUser(ctx context.Context, userID int64) (int, error)
	CreateWish(ctx context.Context, userID int64, w models.NewWish, now time.Time) (*models.Wish, error)
	GetWish(ctx context.Context, id int64) (*models.Wish, error)
	ListWishesByUser(ctx context.Context, userID int64) ([]models.Wish, error)
	UpdateWish(ctx context.Context, id, ownerID int64, upd models.WishUpdate, now time.Time) (*models.Wish, error)
	DeleteWish(ctx context.Context, id, ownerID int64) (int64, error)
}

// WishlistOptions configures a Wishlist service.
type WishlistOptions struct {
	Store     WishStore
	Cache     WishCache
	MaxWishes int
	Metrics   *metrics.WishlistMetrics
	Now       func() time.Time
}

// Wishlist enforces the wish rules on top of a WishStore.
type Wishlist struct {
	store     WishStore
	cache     WishCache
	maxWishes int
	metrics   *metrics.WishlistMetrics
	now       func() time.Time
}

// NewWishlist builds the service, filling defaults for the optional options.
func NewWishlist(opts WishlistOptions) *Wishlist {
	s := &Wishlist{
		store:     opts.Store,
		cache:     opts.Cache,
		maxWishes: opts.MaxWishes,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if s.cache == nil {
		s.cache = NewMemoryCache()
	}
	if s.maxWishes <= 0 {
		s.maxWishes = DefaultMaxWishes
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// MaxWishes returns the configured per-user quota.
func (s *Wishlist) MaxWishes() int { return s.maxWishes }

// CanAddWish reports whether userID is below the quota.
func (s *Wishlist) CanAddWish(ctx context.Context, userID int64) (bool, error) {
	n, err := s.store.CountWishesByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return n < s.maxWishes, nil
}

// AddWish validates and stores a new wish. The title and description are
// trimmed and empty optional fields are stored as absent.
func (s *Wishlist) AddWish(ctx context.Context, userID int64, in models.NewWish) (wish *models.Wish, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "add", userID, start, err) }()

	ok, err := s.CanAddWish(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrQuotaExceeded
	}
	if err := ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := ValidateURL(deref(in.URL)); err != nil {
		return nil, err
	}

	w := models.NewWish{
		Title:       strings.TrimSpace(in.Title),
		Description: models.Ptr(strings.TrimSpace(deref(in.Description))),
		URL:         models.Ptr(deref(in.URL)),
		Price:       models.Ptr(deref(in.Price)),
		ImageFileID: models.Ptr(deref(in.ImageFileID)),
	}
	wish, err = s.store.CreateWish(ctx, userID, w, s.now())
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(userID)
	return wish, nil
}

// GetUserWishes returns the wishes of userID, newest first, through the cache.
func (s *Wishlist) GetUserWishes(ctx context.Context, userID int64) ([]models.Wish, error) {
	if cached, ok := s.cache.Get(userID); ok {
		if logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.SVCWishlist, slog.LevelDebug, "wish.list",
				slog.Int64("user_id", userID),
				slog.Bool("cache_hit", true),
				slog.Int("count", len(cached)),
			)
		}
		return cached, nil
	}
	gen := s.cache.Generation(userID)
	wishes, err := s.store.ListWishesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.cache.SetIfUnchanged(userID, gen, wishes) {
		logger.LogEvent(ctx, logger.SVCWishlist, slog.LevelDebug, "wish.list.stale",
			slog.Int64("user_id", userID),
		)
	}
	return wishes, nil
}

// GetWish returns the wish when it exists and belongs to userID. Missing and
// foreign wishes both yield nil without an error.
func (s *Wishlist) GetWish(ctx context.Context, wishID, userID int64) (*models.Wish, error) {
	w, err := s.store.GetWish(ctx, wishID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, nil
	}
	return w, nil
}

// UpdateWish applies the non-nil fields of upd to a wish owned by userID.
func (s *Wishlist) UpdateWish(ctx context.Context, wishID, userID int64, upd models.WishUpdate) (wish *models.Wish, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update", userID, start, err, slog.Int64("wish_id", wishID)) }()

	current, err := s.GetWish(ctx, wishID, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFoundOrForbidden
	}
	if upd.Title != nil {
		if err := ValidateTitle(*upd.Title); err != nil {
			return nil, err
		}
		t := strings.TrimSpace(*upd.Title)
		upd.Title = &t
	}
	if upd.URL != nil {
		if err := ValidateURL(*upd.URL); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		d := strings.TrimSpace(*upd.Description)
		upd.Description = &d
	}
	if upd.Empty() {
		return current, nil
	}

	wish, err = s.store.UpdateWish(ctx, wishID, userID, upd, s.now())
	if errors.Is(err, store.ErrNotFound) {
		err = ErrNotFoundOrForbidden
	}
	s.cache.Invalidate(userID)
	if err != nil {
		return nil, err
	}
	return wish, nil
}

// DeleteWish removes a wish owned by userID.
func (s *Wishlist) DeleteWish(ctx context.Context, wishID, userID int64) (ok bool, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "delete", userID, start, err, slog.Int64("wish_id", wishID)) }()

	current, err := s.GetWish(ctx, wishID, userID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, ErrNotFoundOrForbidden
	}
	n, err := s.store.DeleteWish(ctx, wishID, userID)
	s.cache.Invalidate(userID)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrDeleteFailed
	}
	return true, nil
}

func (s *Wishlist) observe(ctx context.Context, op string, userID int64, start time.Time, err error, extra ...slog.Attr) {
	outcome := "ok"
	level := slog.LevelInfo
	if err != nil {
		outcome = strings.ToLower(string(CodeOf(err)))
		level = slog.LevelWarn
		if CodeOf(err) == CodeInternal {
			level = slog.LevelError
		}
	}
	s.metrics.Inc(op, outcome)

	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("op", op),
		slog.Int64("user_id", userID),
		slog.Duration("duration", logger.Took(start)),
	}
	attrs = append(attrs, extra...)
	if err != nil {
		attrs = append(attrs, slog.String("err_code", string(CodeOf(err))), slog.String("err", err.Error()))
	}
	logger.LogEvent(ctx, logger.SVCWishlist, level, "wish."+op, attrs...)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
