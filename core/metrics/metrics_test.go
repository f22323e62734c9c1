package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHandlerMetrics(reg)

	m.ObserveHandled("mywishlist", "ok", 20*time.Millisecond)
	m.ObserveHandled("mywishlist", "ok", 10*time.Millisecond)
	m.ObserveHandled("", "fail", time.Millisecond)
	m.IncRateLimited()
	m.IncSendFailure("timeout")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.handled.WithLabelValues("mywishlist", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handled.WithLabelValues("unknown", "fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sendFailures.WithLabelValues("timeout")))
}

func TestWishlistMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWishlistMetrics(reg)
	m.Inc("add", "ok")
	m.Inc("add", "quota")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("add", "quota")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var h *HandlerMetrics
	h.ObserveHandled("x", "ok", time.Second)
	h.IncRateLimited()
	h.IncSendFailure("dns")

	var w *WishlistMetrics
	w.Inc("add", "ok")

	NewHandlerMetrics(nil).IncRateLimited()
	NewWishlistMetrics(nil).Inc("delete", "ok")
}

func TestServerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWishlistMetrics(reg).Inc("add", "ok")

	srv, err := NewServer("127.0.0.1:0", "/metrics", reg)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err := srv.Shutdown(ctx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("shutdown: %v", err)
		}
	})

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `wishlist_operations_total{op="add",outcome="ok"} 1`), string(body))
}
