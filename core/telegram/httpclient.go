package telegram

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/wishbot/core/logger"
	"github.com/m3rciful/wishbot/core/telegram/netutil"
)

// HTTPClientOptions tunes the Bot API client. Zero values select defaults.
type HTTPClientOptions struct {
	// LongPoll is the getUpdates timeout; response deadlines are stretched past it.
	LongPoll time.Duration
	Retries  int
	Backoff  time.Duration
}

const (
	apiDialTimeout  = 5 * time.Second
	apiTLSTimeout   = 5 * time.Second
	apiIdleTimeout  = 90 * time.Second
	apiHeaderGrace  = 5 * time.Second
	apiClientGrace  = 25 * time.Second
	apiRetries      = 3
	apiRetryBackoff = time.Second
)

// BuildHTTPClient returns a client for Bot API calls that retries transient
// network failures. Header and total deadlines leave room for a held long poll.
func BuildHTTPClient(opts HTTPClientOptions) *http.Client {
	if opts.Retries <= 0 {
		opts.Retries = apiRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = apiRetryBackoff
	}

	dialer := &net.Dialer{Timeout: apiDialTimeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       apiIdleTimeout,
		TLSHandshakeTimeout:   apiTLSTimeout,
		ResponseHeaderTimeout: opts.LongPoll + apiHeaderGrace,
	}
	return &http.Client{
		Timeout: opts.LongPoll + apiClientGrace,
		Transport: &retryTransport{
			next:    transport,
			retries: opts.Retries,
			backoff: opts.Backoff,
			sleep:   sleepCtx,
		},
	}
}

// retryTransport replays a request after a transient failure. Requests whose
// body cannot be rewound are attempted once.
type retryTransport struct {
	next    http.RoundTripper
	retries int
	backoff time.Duration
	sleep   func(req *http.Request, d time.Duration) error
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries; attempt++ {
		if !netutil.ShouldRetry(err) || (req.Body != nil && req.GetBody == nil) {
			return nil, err
		}
		logger.LogEvent(req.Context(), logger.TWire, slog.LevelDebug, "http.retry",
			slog.Int("attempt", attempt),
			slog.String("err", logger.SanitizeLimit(err.Error(), 160)),
		)
		if serr := t.sleep(req, t.backoff*time.Duration(attempt)); serr != nil {
			return nil, serr
		}
		retry := req.Clone(req.Context())
		if req.GetBody != nil {
			body, berr := req.GetBody()
			if berr != nil {
				return nil, berr
			}
			retry.Body = body
		}
		resp, err = t.next.RoundTrip(retry)
	}
	return resp, err
}

func sleepCtx(req *http.Request, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}
