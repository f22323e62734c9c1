package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/wishbot/core/metrics"
	"github.com/m3rciful/wishbot/internal/models"
	"github.com/m3rciful/wishbot/internal/store"
	"github.com/m3rciful/wishbot/internal/store/storetest"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type fixture struct {
	st    *store.Store
	wl    *Wishlist
	users *Users
	cache *MemoryCache
	clock *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New(storetest.Open(t))
	c := &clock{t: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache()
	f := &fixture{
		st:    st,
		cache: cache,
		clock: c,
		users: NewUsers(st, c.Now),
		wl:    NewWishlist(WishlistOptions{Store: st, Cache: cache, Now: c.Now}),
	}
	for _, id := range []int64{1, 2} {
		_, err := f.users.GetOrCreate(context.Background(), id, "", "user")
		require.NoError(t, err)
	}
	return f
}

func TestValidateTitle(t *testing.T) {
	cases := []struct {
		name   string
		title  string
		reason string
	}{
		{"min length", "abc", ""},
		{"max length", strings.Repeat("x", 100), ""},
		{"multibyte counts characters", strings.Repeat("ж", 100), ""},
		{"trimmed short", "  ab  ", ReasonTooShort},
		{"empty", "", ReasonTooShort},
		{"raw length over max", strings.Repeat("x", 101), ReasonTooLong},
		{"spaces count toward max", " " + strings.Repeat("x", 99) + " ", ReasonTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTitle(tc.title)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}
			verr, ok := AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tc.reason, verr.Reason)
			assert.Equal(t, models.FieldTitle, verr.Field)
			assert.Equal(t, CodeValidation, CodeOf(err))
		})
	}
}

func TestValidateURL(t *testing.T) {
	for _, ok := range []string{"", "http://x", "https://example.com/item?id=1"} {
		assert.NoError(t, ValidateURL(ok), ok)
	}
	for _, bad := range []string{"example.com", "ftp://x", "HTTPS://x", " https://x"} {
		err := ValidateURL(bad)
		verr, ok := AsValidation(err)
		require.True(t, ok, bad)
		assert.Equal(t, models.FieldURL, verr.Field)
	}
}

func TestShareCode(t *testing.T) {
	// md5("1") = c4ca4238a0b923820dcc509a6f75849b
	assert.Equal(t, "c4ca4238", ShareCode(1))
	assert.Len(t, ShareCode(123456789), ShareCodeLength)
	assert.Equal(t, ShareCode(42), ShareCode(42))

	code, ok := ParseStartPayload("view_c4ca4238")
	assert.True(t, ok)
	assert.Equal(t, "c4ca4238", code)
	_, ok = ParseStartPayload("view_")
	assert.False(t, ok)
	_, ok = ParseStartPayload("ref_abc")
	assert.False(t, ok)
}

func TestAddWishTrimsAndStoresAbsentFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.wl.AddWish(ctx, 1, models.NewWish{
		Title:       "  Red Bicycle ",
		Description: models.Ptr("   "),
		Price:       models.Ptr("250 USD"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Red Bicycle", w.Title)
	assert.Nil(t, w.Description)
	assert.Nil(t, w.URL)
	assert.Nil(t, w.ImageFileID)
	require.NotNil(t, w.Price)
	assert.Equal(t, "250 USD", *w.Price)
}

func TestAddWishValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.wl.AddWish(ctx, 1, models.NewWish{Title: "ab"})
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = f.wl.AddWish(ctx, 1, models.NewWish{Title: "valid", URL: models.Ptr("www.shop")})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, models.FieldURL, verr.Field)

	n, err := f.st.CountWishesByUser(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAddWishQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < DefaultMaxWishes; i++ {
		_, err := f.wl.AddWish(ctx, 1, models.NewWish{Title: "wish number"})
		require.NoError(t, err)
	}
	ok, err := f.wl.CanAddWish(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.wl.AddWish(ctx, 1, models.NewWish{Title: "one too many"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, CodeQuota, CodeOf(err))

	n, err := f.st.CountWishesByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxWishes, n)

	ok, err = f.wl.CanAddWish(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfiguredQuota(t *testing.T) {
	f := newFixture(t)
	wl := NewWishlist(WishlistOptions{Store: f.st, MaxWishes: 1})
	ctx := context.Background()
	_, err := wl.AddWish(ctx, 1, models.NewWish{Title: "only one"})
	require.NoError(t, err)
	_, err = wl.AddWish(ctx, 1, models.NewWish{Title: "second"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, wl.MaxWishes())
}

func TestGetWishOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.wl.AddWish(ctx, 1, models.NewWish{Title: "Camera"})
	require.NoError(t, err)

	got, err := f.wl.GetWish(ctx, w.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Camera", got.Title)

	got, err = f.wl.GetWish(ctx, w.ID, 2)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.wl.GetWish(ctx, 9999, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.wl.UpdateWish(ctx, w.ID, 2, models.FieldTitle.Set("Mine now"))
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	_, err = f.wl.DeleteWish(ctx, w.ID, 2)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestDeleteThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.wl.AddWish(ctx, 1, models.NewWish{Title: "Camera"})
	require.NoError(t, err)

	ok, err := f.wl.DeleteWish(ctx, w.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.wl.GetWish(ctx, w.ID, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	ok, err = f.wl.DeleteWish(ctx, w.ID, 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestUpdatePriceOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.wl.AddWish(ctx, 1, models.NewWish{
		Title:       "Headphones",
		Description: models.Ptr("noise cancelling"),
		URL:         models.Ptr("https://shop.example/h1"),
		Price:       models.Ptr("100 EUR"),
		ImageFileID: models.Ptr("AgAD-photo"),
	})
	require.NoError(t, err)

	f.clock.t = f.clock.t.Add(time.Hour)
	upd, err := f.wl.UpdateWish(ctx, w.ID, 1, models.FieldPrice.Set("120 EUR"))
	require.NoError(t, err)

	assert.Equal(t, "120 EUR", *upd.Price)
	assert.Equal(t, w.Title, upd.Title)
	assert.Equal(t, *w.Description, *upd.Description)
	assert.Equal(t, *w.URL, *upd.URL)
	assert.Equal(t, *w.ImageFileID, *upd.ImageFileID)
	assert.True(t, upd.UpdatedAt.After(w.UpdatedAt))
	assert.True(t, w.CreatedAt.Equal(upd.CreatedAt))
}

func TestUpdateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w, err := f.wl.AddWish(ctx, 1, models.NewWish{Title: "Headphones"})
	require.NoError(t, err)

	_, err = f.wl.UpdateWish(ctx, w.ID, 1, models.FieldTitle.Set("x"))
	assert.Equal(t, CodeValidation, CodeOf(err))
	_, err = f.wl.UpdateWish(ctx, w.ID, 1, models.FieldURL.Set("shop.example"))
	assert.Equal(t, CodeValidation, CodeOf(err))

	upd, err := f.wl.UpdateWish(ctx, w.ID, 1, models.FieldTitle.Set("  Better headphones  "))
	require.NoError(t, err)
	assert.Equal(t, "Better headphones", upd.Title)
}

func TestCacheInvalidatedOnWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.wl.GetUserWishes(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, f.cache.Len())

	first, err := f.wl.AddWish(ctx, 1, models.NewWish{Title: "first"})
	require.NoError(t, err)
	assert.Zero(t, f.cache.Len())

	f.clock.t = f.clock.t.Add(time.Minute)
	_, err = f.wl.AddWish(ctx, 1, models.NewWish{Title: "second"})
	require.NoError(t, err)

	list, err = f.wl.GetUserWishes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)

	_, err = f.wl.UpdateWish(ctx, first.ID, 1, models.FieldTitle.Set("renamed"))
	require.NoError(t, err)
	_, cached := f.cache.Get(1)
	assert.False(t, cached)

	_, err = f.wl.GetUserWishes(ctx, 1)
	require.NoError(t, err)
	_, err = f.wl.DeleteWish(ctx, first.ID, 1)
	require.NoError(t, err)
	_, cached = f.cache.Get(1)
	assert.False(t, cached)
}

// pausingStore holds the first ListWishesByUser call after the rows were read.
type pausingStore struct {
	*store.Store
	paused  atomic.Bool
	loaded  chan struct{}
	release chan struct{}
}

func (p *pausingStore) ListWishesByUser(ctx context.Context, userID int64) ([]models.Wish, error) {
	wishes, err := p.Store.ListWishesByUser(ctx, userID)
	if p.paused.CompareAndSwap(false, true) {
		close(p.loaded)
		<-p.release
	}
	return wishes, err
}

func TestCacheDropsLoadRacingWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ps := &pausingStore{Store: f.st, loaded: make(chan struct{}), release: make(chan struct{})}
	wl := NewWishlist(WishlistOptions{Store: ps, Cache: f.cache, Now: f.clock.Now})

	type result struct {
		wishes []models.Wish
		err    error
	}
	done := make(chan result, 1)
	go func() {
		w, err := wl.GetUserWishes(ctx, 1)
		done <- result{w, err}
	}()

	<-ps.loaded
	_, err := wl.AddWish(ctx, 1, models.NewWish{Title: "Telescope"})
	require.NoError(t, err)
	close(ps.release)

	stale := <-done
	require.NoError(t, stale.err)
	assert.Empty(t, stale.wishes)
	_, cached := f.cache.Get(1)
	assert.False(t, cached, "a load older than the write must not be cached")

	list, err := wl.GetUserWishes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Telescope", list[0].Title)
}

func TestMemoryCacheGenerations(t *testing.T) {
	c := NewMemoryCache()
	gen := c.Generation(7)
	c.Invalidate(7)
	assert.False(t, c.SetIfUnchanged(7, gen, []models.Wish{{ID: 1}}))
	assert.Zero(t, c.Len())

	gen = c.Generation(7)
	assert.True(t, c.SetIfUnchanged(7, gen, []models.Wish{{ID: 1}}))
	got, ok := c.Get(7)
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestWishlistMetrics(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewWishlistMetrics(reg)
	wl := NewWishlist(WishlistOptions{Store: f.st, Metrics: m})
	ctx := context.Background()

	_, err := wl.AddWish(ctx, 1, models.NewWish{Title: "ok title"})
	require.NoError(t, err)
	_, err = wl.AddWish(ctx, 1, models.NewWish{Title: "no"})
	require.Error(t, err)

	n, err := testutil.GatherAndCount(reg, "wishlist_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.GetOrCreate(ctx, 1, "@ignored", "changed")
	require.NoError(t, err)
	assert.Equal(t, "user", u.FirstName)
	assert.Equal(t, ShareCode(1), u.ShareCode)
	assert.True(t, u.IsPublic)

	fresh, err := f.users.GetOrCreate(ctx, 3, "@ann", "Ann")
	require.NoError(t, err)
	require.NotNil(t, fresh.Username)
	assert.Equal(t, "ann", *fresh.Username)

	byCode, err := f.users.ResolveShareCode(ctx, strings.ToUpper(ShareCode(3)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), byCode.ID)

	_, err = f.users.ResolveShareCode(ctx, "zzzzzzzz")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.users.ResolveShareCode(ctx, ShareCode(404))
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.users.SetPublic(ctx, 3, false))
	got, err := f.users.Get(ctx, 3)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)
	assert.ErrorIs(t, f.users.SetPublic(ctx, 404, true), ErrUserNotFound)

	_, err = f.users.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	st, err := f.users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Users)
	assert.Equal(t, 2, st.PublicUsers)
}
