package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// browserUserAgent matches what the platform's own web UI sends; some
// endpoints refuse non-browser agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// epochLastChanged asks view endpoints for the complete record rather
// than a delta since the caller's last visit.
const epochLastChanged = "1900-01-01T00:00:00.000Z"

// bodySnippetLimit caps how much of an error response body travels
// inside a TransportError.
const bodySnippetLimit = 500

// retryableStatus marks responses worth a second attempt. Only GETs
// are ever retried; writes go out exactly once.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// ClientConfig carries everything HTTPClient needs to reach the
// platform. BaseURL is required. Zero Timeout, Backoff, RateLimit and
// RateBurst fall back to the DefaultClientConfig values; MaxRetries 0
// means no retries and CacheSize 0 disables the response cache.
type ClientConfig struct {
	BaseURL           string
	Cookie            string        // raw Cookie header captured from a browser session
	SessionToken      string        // AE_S cookie value
	VerificationToken string        // AE_V cookie value
	Timeout           time.Duration // per-request timeout
	MaxRetries        int           // GET retries after the first attempt
	Backoff           time.Duration // base retry delay, doubled per attempt
	RateLimit         float64       // sustained requests per second
	RateBurst         int
	CacheSize         int // GET cache entries
}

// DefaultClientConfig returns the stock settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		RateLimit:  5,
		RateBurst:  10,
		CacheSize:  128,
	}
}

// HTTPClient talks to the live platform. All methods are safe for
// concurrent use.
type HTTPClient struct {
	cfg     ClientConfig
	http    *http.Client
	limiter *rate.Limiter
	cache   *responseCache
	log     *logrus.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a live client. A nil logger gets a fresh logrus
// logger at the default level.
func NewHTTPClient(cfg ClientConfig, log *logrus.Logger) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, &ValidationError{Param: "base_url", Value: cfg.BaseURL, Message: "base URL is required"}
	}
	def := DefaultClientConfig()
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = def.RateBurst
	}

	cache, err := newResponseCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	c := &HTTPClient{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		cache:   cache,
		log:     log,
	}
	log.WithField("base_url", cfg.BaseURL).Info("initialized PowerTrack client")
	return c, nil
}

// Close releases idle connections. The client must not be used after.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	c.log.Debug("PowerTrack client closed")
	return nil
}

// requestSpec describes one upstream exchange.
type requestSpec struct {
	op      string // client method name, used in errors and metrics
	method  string
	path    string // endpoint path, starting with /
	query   url.Values
	payload any    // JSON-encoded request body when non-nil
	referer string // admin page the platform expects as Referer
}

// do runs one logical request: cache lookup, rate limiting, the retry
// loop and metrics. It returns the raw response body.
func (c *HTTPClient) do(ctx context.Context, spec requestSpec) ([]byte, error) {
	u := c.cfg.BaseURL + spec.path
	if len(spec.query) > 0 {
		u += "?" + spec.query.Encode()
	}

	if spec.method == http.MethodGet {
		if body, ok := c.cache.get(spec.method, u); ok {
			cacheHits.Inc()
			c.log.WithFields(logrus.Fields{"method": spec.method, "url": u}).Debug("cache hit")
			return body, nil
		}
	}

	var payload []byte
	if spec.payload != nil {
		var err error
		payload, err = json.Marshal(spec.payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request body: %w", spec.op, err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: spec.op, URL: u, Err: err}
	}

	start := time.Now()
	body, code, err := c.exchange(ctx, spec, u, payload)
	requestDuration.WithLabelValues(spec.method, spec.op).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(spec.method, spec.op, strconv.Itoa(code)).Inc()
	if err != nil {
		return nil, err
	}

	if spec.method == http.MethodGet {
		c.cache.add(spec.method, u, body)
	}
	return body, nil
}

// exchange applies the retry policy around individual attempts. GETs
// retry transient statuses and network failures with exponential
// backoff; a write that failed on the wire may or may not have reached
// the platform, so it is never reissued.
func (c *HTTPClient) exchange(ctx context.Context, spec requestSpec, u string, payload []byte) ([]byte, int, error) {
	attempts := 1
	if spec.method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		lastErr  error
		lastCode int
		lastBody []byte
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.Backoff * time.Duration(1<<(attempt-1))
			c.log.WithFields(logrus.Fields{
				"method":  spec.method,
				"url":     u,
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("retrying request")
			select {
			case <-ctx.Done():
				return nil, lastCode, &TransportError{Op: spec.op, URL: u, StatusCode: lastCode, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		body, code, err := c.roundTrip(ctx, spec, u, payload)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, 0, &TransportError{Op: spec.op, URL: u, Err: err}
			}
			lastErr = err
			lastCode = 0
			continue
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return nil, code, &AuthError{StatusCode: code, Message: snippet(body)}
		case code >= 200 && code < 300:
			return body, code, nil
		case retryableStatus[code]:
			lastErr = nil
			lastCode = code
			lastBody = body
			continue
		default:
			return nil, code, &TransportError{Op: spec.op, URL: u, StatusCode: code, Body: snippet(body)}
		}
	}

	if lastErr != nil {
		return nil, 0, &TransportError{Op: spec.op, URL: u, Err: lastErr}
	}
	return nil, lastCode, &TransportError{Op: spec.op, URL: u, StatusCode: lastCode, Body: snippet(lastBody)}
}

// roundTrip performs a single attempt under the per-request timeout.
func (c *HTTPClient) roundTrip(ctx context.Context, spec requestSpec, u string, payload []byte) ([]byte, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(reqCtx, spec.method, u, reqBody)
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(req, spec, payload != nil)

	c.log.WithFields(logrus.Fields{
		"method":     spec.method,
		"url":        u,
		"request_id": req.Header.Get("X-Request-Id"),
	}).Debug("upstream request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func (c *HTTPClient) setHeaders(req *http.Request, spec requestSpec, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if cookie := c.cookieHeader(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if spec.referer != "" {
		req.Header.Set("Referer", spec.referer)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

// cookieHeader assembles the session cookie the way a browser would
// send it: the captured COOKIE blob first, then the AE_S / AE_V pair.
func (c *HTTPClient) cookieHeader() string {
	parts := make([]string, 0, 3)
	if c.cfg.Cookie != "" {
		parts = append(parts, c.cfg.Cookie)
	}
	if c.cfg.SessionToken != "" {
		parts = append(parts, "AE_S="+c.cfg.SessionToken)
	}
	if c.cfg.VerificationToken != "" {
		parts = append(parts, "AE_V="+c.cfg.VerificationToken)
	}
	return strings.Join(parts, "; ")
}

// refererFor names the administration page a browser would be on when
// issuing the call; several edit endpoints check it.
func (c *HTTPClient) refererFor(id, page string) string {
	return fmt.Sprintf("%s/powertrack/%s/administration/%s", c.cfg.BaseURL, id, page)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodySnippetLimit {
		s = s[:bodySnippetLimit]
	}
	return s
}
