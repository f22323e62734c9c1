package router

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/wishbot/core/metrics"
	tg "github.com/m3rciful/wishbot/core/telegram"
	"github.com/m3rciful/wishbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

type fakeFSM struct {
	active  bool
	handled []string
}

func (f *fakeFSM) InProgress(tele.Context) bool { return f.active }

func (f *fakeFSM) HandleMessage(c tele.Context) error {
	f.handled = append(f.handled, c.Text())
	return nil
}

func textCtx(t *testing.T, text string) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b.NewContext(tele.Update{
		ID: 10,
		Message: &tele.Message{
			Text:   text,
			Sender: &tele.User{ID: 3},
			Chat:   &tele.Chat{ID: 3, Type: tele.ChatPrivate},
		},
	})
}

func routeFor(routes []tg.Route, endpoint any) tele.HandlerFunc {
	for _, r := range routes {
		if r.Endpoint == endpoint {
			return r.Handler
		}
	}
	return nil
}

func TestTextRoutesPriority(t *testing.T) {
	reg := tg.NewRegistry()
	var menuHits int
	reg.RegisterCommand("/mywishlist", commands.Command{
		Description: "list",
		Aliases:     []string{"⭐️ My wishlist"},
		Handler:     func(tele.Context) error { menuHits++; return nil },
	})
	fsm := &fakeFSM{}
	var unknown int
	routes := TextRoutes(fsm, reg, TextOptions{
		UnknownText: func(tele.Context) error { unknown++; return nil },
	})
	text := routeFor(routes, tele.OnText)
	require.NotNil(t, text)
	require.NotNil(t, routeFor(routes, tele.OnPhoto))

	require.NoError(t, text(textCtx(t, "hello")))
	assert.Equal(t, 1, unknown)

	fsm.active = true
	require.NoError(t, text(textCtx(t, "Red Bicycle")))
	assert.Equal(t, []string{"Red Bicycle"}, fsm.handled)

	require.NoError(t, text(textCtx(t, "⭐️ My wishlist")))
	assert.Equal(t, 1, menuHits)
	assert.Len(t, fsm.handled, 1)
}

func TestHandlerSummaryFeedsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHandlerMetrics(reg)
	SetMetrics(m)
	t.Cleanup(func() { SetMetrics(nil) })

	c := textCtx(t, "x")
	err := handleWithSummary(c, "add", time.Now(), "", "", func() error { return errors.New("boom") })
	require.Error(t, err)
	require.NoError(t, handleWithSummary(c, "add", time.Now(), "", "", func() error { return nil }))

	n, err := testutil.GatherAndCount(reg, "wishbot_updates_handled_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

type codedErr struct{}

func (codedErr) Error() string { return "quota" }
func (codedErr) Code() string  { return "quota exceeded" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "QUOTA_EXCEEDED", deriveErrorCode(codedErr{}))
	assert.Equal(t, "QUOTA_EXCEEDED", deriveErrorCode(fmt.Errorf("wrap: %w", codedErr{})))
	assert.Equal(t, "PLAINERR", deriveErrorCode(&plainErr{}))
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "mywishlist", normalizeHandlerName("/MyWishlist"))
	assert.Equal(t, "unknown", normalizeHandlerName(" "))
	assert.Equal(t, "a_b", normalizeHandlerName("a b"))
}
