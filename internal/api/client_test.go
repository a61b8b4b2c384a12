package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powertrack-tools/powertrack/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestClient points a live client at the handler with retries fast
// enough for tests and the cache off unless a test turns it on.
func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.Cookie = "ASP.NET_SessionId=abc123"
	cfg.SessionToken = "sess-token"
	cfg.VerificationToken = "verif-token"
	cfg.Backoff = time.Millisecond
	cfg.RateLimit = 10000
	cfg.RateBurst = 10000
	cfg.CacheSize = 0
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := NewHTTPClient(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewHTTPClientValidation(t *testing.T) {
	_, err := NewHTTPClient(ClientConfig{}, testLogger())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "base_url", verr.Param)

	client, err := NewHTTPClient(ClientConfig{BaseURL: "https://apps.example.com/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://apps.example.com", client.cfg.BaseURL)
	assert.Equal(t, 30*time.Second, client.cfg.Timeout)
	assert.Equal(t, 3, client.cfg.MaxRetries)
}

func TestRequestHeaders(t *testing.T) {
	var captured http.Header
	var capturedPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		capturedPath = r.URL.Path
		_, _ = w.Write([]byte(`{"name": "Test Site"}`))
	})
	client := newTestClient(t, handler, nil)

	cfg, err := client.GetSiteConfig(context.Background(), "S10001")
	require.NoError(t, err)
	assert.Equal(t, models.NullableOf("Test Site"), cfg.Name)

	assert.Equal(t, "/api/edit/site/S10001", capturedPath)
	assert.Equal(t, "application/json", captured.Get("Accept"))
	assert.Equal(t, browserUserAgent, captured.Get("User-Agent"))
	assert.Equal(t, "ASP.NET_SessionId=abc123; AE_S=sess-token; AE_V=verif-token", captured.Get("Cookie"))
	assert.Equal(t, client.cfg.BaseURL+"/powertrack/S10001/administration/config", captured.Get("Referer"))
	assert.NotEmpty(t, captured.Get("X-Request-Id"))
}

func TestViewEndpointsAskForFullRecord(t *testing.T) {
	var lastChanged string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastChanged = r.URL.Query().Get("lastChanged")
		_, _ = w.Write([]byte(`{"key": "S10001", "name": "Test Site", "parent_key": "C12345"}`))
	})
	client := newTestClient(t, handler, nil)

	info, err := client.GetSiteDetailedInfo(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, "S10001", info.Key)
	assert.Equal(t, epochLastChanged, lastChanged)
}

func TestAuthErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("session expired"))
	})
	client := newTestClient(t, handler, nil)

	_, err := client.GetSiteConfig(context.Background(), "S10001")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, "session expired", authErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name": "Recovered"}`))
	})
	client := newTestClient(t, handler, nil)

	cfg, err := client.GetSiteConfig(context.Background(), "S10001")
	require.NoError(t, err)
	assert.Equal(t, models.NullableOf("Recovered"), cfg.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetRetriesExhaust(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance window"))
	})
	client := newTestClient(t, handler, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })

	_, err := client.GetSiteConfig(context.Background(), "S10001")
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusServiceUnavailable, terr.StatusCode)
	assert.Equal(t, "maintenance window", terr.Body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	})
	client := newTestClient(t, handler, nil)

	_, err := client.GetSiteConfig(context.Background(), "S10001")
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWritesGoOutExactlyOnce(t *testing.T) {
	var puts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		puts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := newTestClient(t, handler, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })

	result, err := client.UpdateHardwareDriver(context.Background(), "H12345", map[string]any{"driverName": "solarmax"})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, int32(1), puts.Load())

	// The audit trail survives the failed write.
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.ErrorMessage)
	assert.NotNil(t, result.UpdatedData["driverName"])
}

func TestNetworkFailureBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 1
	cfg.Backoff = time.Millisecond
	client, err := NewHTTPClient(cfg, testLogger())
	require.NoError(t, err)
	srv.Close()

	_, err = client.GetUserPreferences(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.StatusCode)
	assert.Error(t, terr.Err)
}

func TestResponseCacheServesRepeatGets(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"name": "Cached Site"}`))
	})
	client := newTestClient(t, handler, func(cfg *ClientConfig) { cfg.CacheSize = 16 })

	first, err := client.GetSiteConfig(context.Background(), "S10001")
	require.NoError(t, err)
	second, err := client.GetSiteConfig(context.Background(), "S10001")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second call should come from cache")

	_, err = client.GetSiteConfig(context.Background(), "S10002")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "different site is a different cache key")
}

func TestRunEditMergesAndInjectsKey(t *testing.T) {
	var putBody []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/edit/site/S10001":
			_, _ = w.Write([]byte(`{"name": "Old Name", "nested": {"a": 1, "b": 2}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/edit/site":
			putBody, _ = io.ReadAll(r.Body)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"success": true}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	client := newTestClient(t, handler, nil)

	updates := map[string]any{"name": "New Name", "nested": map[string]any{"b": 3}}
	result, err := client.UpdateSiteConfig(context.Background(), "S10001", updates)
	require.NoError(t, err)
	require.True(t, result.Success)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(putBody, &sent))
	assert.Equal(t, map[string]any{
		"key":    "S10001",
		"name":   "New Name",
		"nested": map[string]any{"a": float64(1), "b": float64(3)},
	}, sent)

	assert.JSONEq(t, `"Old Name"`, string(result.OriginalData["name"]))
	assert.JSONEq(t, `"New Name"`, string(result.UpdatedData["name"]))
	assert.JSONEq(t, `{"success": true}`, string(result.PutResponse))
}

func TestGetHardwareListFallsBackToNodeQuery(t *testing.T) {
	var paths []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/view/sitehardwareproduction/S10001":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/node":
			assert.Equal(t, http.MethodPost, r.Method)
			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "S10001", payload["key"])
			assert.Equal(t, "query", payload["context"])
			_, _ = w.Write([]byte(`{"nodes": [
				{"key": "H111", "name": "Inv A", "kind": "hardware", "subKind": 1},
				{"key": "C12345", "name": "Customer", "kind": "customer"},
				{"key": "H222", "name": "Meter B", "kind": "hardware", "subKind": "unknown"}
			]}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	client := newTestClient(t, handler, func(cfg *ClientConfig) { cfg.MaxRetries = 0 })

	summaries, err := client.GetHardwareList(context.Background(), "S10001")
	require.NoError(t, err)
	require.Equal(t, []string{"/api/view/sitehardwareproduction/S10001", "/api/node"}, paths)

	require.Len(t, summaries, 2)
	assert.Equal(t, "H111", summaries[0].Key)
	assert.Equal(t, "Inv A", summaries[0].Name)
	fc, ok := summaries[0].FunctionCode.Get()
	require.True(t, ok)
	assert.Equal(t, int64(1), fc)
	assert.True(t, summaries[0].EnableBool)

	assert.Equal(t, "H222", summaries[1].Key)
	_, ok = summaries[1].FunctionCode.Get()
	assert.False(t, ok, "non-numeric subKind carries no function code")
}

func TestGetHardwareListAuthFailureStopsFallback(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})
	client := newTestClient(t, handler, nil)

	_, err := client.GetHardwareList(context.Background(), "S10001")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(1), calls.Load(), "a dead session fails every source, no point trying the rest")
}

func TestGetHardwareListEmptyWhenAllSourcesFail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, handler, func(cfg *ClientConfig) { cfg.MaxRetries = 0 })

	summaries, err := client.GetHardwareList(context.Background(), "S10001")
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NotNil(t, summaries)
}

func TestBadBodySurfacesParseError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1, 2, 3]`))
	})
	client := newTestClient(t, handler, nil)

	_, err := client.GetSiteDetailedInfo(context.Background(), "S10001")
	var perr *models.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestGetChartDataPayload(t *testing.T) {
	var payload map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/view/chart", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"binSize": 60, "namedResults": {"energy": 12.5}, "series": []}`))
	})
	client := newTestClient(t, handler, nil)

	chart, err := client.GetChartData(context.Background(), "S10001", "2022-01-01T00:00:00Z", "2022-01-02T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(60), chart.BinSize)

	assert.Equal(t, "site", payload["context"])
	assert.Equal(t, []any{"S10001"}, payload["siteKeys"])
	assert.Equal(t, []any{float64(5), float64(2)}, payload["hardwareByType"])
	assert.Equal(t, "2022-01-01T00:00:00Z", payload["spanFrom"])
	assert.Equal(t, "2022-01-02T00:00:00Z", payload["spanTo"])
}

func TestGetChartDataRejectsHalfSpan(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler(), nil)

	_, err := client.GetChartData(context.Background(), "S10001", "2022-01-01T00:00:00Z", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetSiteOverviewResolvesThroughPortfolio(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/view/site/S10001":
			_, _ = w.Write([]byte(`{"key": "S10001", "name": "Test Site", "parent_key": "C777"}`))
		case "/api/view/portfolio/C777":
			_, _ = w.Write([]byte(`{"sites": [
				{"key": "S10002", "name": "Other", "parentKey": "C777"},
				{"key": "S10001", "name": "Test Site", "parentKey": "C777", "today": 48.0}
			]}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
	client := newTestClient(t, handler, nil)

	overview, err := client.GetSiteOverview(context.Background(), "S10001")
	require.NoError(t, err)
	assert.Equal(t, "S10001", overview.Key)
	assert.Equal(t, 48.0, overview.Today.Or(0))
}

func TestGetSiteOverviewNotInPortfolio(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/view/site/S10001":
			_, _ = w.Write([]byte(`{"key": "S10001", "name": "Test Site", "parent_key": "C777"}`))
		case "/api/view/portfolio/C777":
			_, _ = w.Write([]byte(`{"sites": []}`))
		default:
			http.NotFound(w, r)
		}
	})
	client := newTestClient(t, handler, nil)

	_, err := client.GetSiteOverview(context.Background(), "S10001")
	assert.True(t, errors.Is(err, ErrSiteNotFound))
}

func TestGetSiteOverviewWithoutParent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key": "S10001", "name": "Orphan"}`))
	})
	client := newTestClient(t, handler, nil)

	_, err := client.GetSiteOverview(context.Background(), "S10001")
	assert.True(t, errors.Is(err, ErrSiteNotFound))
}
