package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrack/internal/platform/apiclient"
	apperrors "smarttrack/internal/platform/errors"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveFetch(_, _, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func newClient(t *testing.T, srv *httptest.Server, opts apiclient.Options) *apiclient.Client {
	t.Helper()
	opts.BaseURL = srv.URL
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}
	c, err := apiclient.New(opts)
	require.NoError(t, err)
	return c
}

func TestFetchJSONDecodesBodyAndBuildsURL(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/recent/", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":1,"platform":"x"}]`))
	}))
	defer srv.Close()
	obs := &recordingObserver{}
	c := newClient(t, srv, apiclient.Options{Observer: obs})

	var out []map[string]any
	err := c.FetchJSON(context.Background(), "sessions/recent/", url.Values{"limit": {"10"}}, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0]["platform"])
	assert.Equal(t, []string{"ok"}, obs.outcomes)
}

func TestFetchJSONErrorKinds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		handler http.HandlerFunc
		kind    error
		status  int
		message string
	}{
		{
			name:    "status",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			kind:    apperrors.ErrHTTPStatus,
			status:  500,
		},
		{
			name: "status with server message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"cat + exam must equal 1.0"}`))
			},
			kind:    apperrors.ErrHTTPStatus,
			status:  400,
			message: "cat + exam must equal 1.0",
		},
		{
			name:    "parse",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
			kind:    apperrors.ErrParse,
			status:  200,
		},
		{
			name:    "server reported",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"error":"bad weights"}`)) },
			kind:    apperrors.ErrServerReported,
			status:  200,
			message: "bad weights",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := newClient(t, srv, apiclient.Options{})

			var out map[string]any
			err := c.FetchJSON(context.Background(), "summary/today/", nil, &out)
			require.ErrorIs(t, err, tc.kind)
			var fe *apperrors.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.status, fe.Status)
			assert.Equal(t, tc.message, fe.Message)
			assert.Nil(t, out)
		})
	}
}

func TestFetchJSONNetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newClient(t, srv, apiclient.Options{})
	srv.Close()

	err := c.FetchJSON(context.Background(), "summary/today/", nil, &map[string]any{})
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestBreakerOpensOnServerFailuresAndFailsFast(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	breaker := apiclient.NewBreaker("test", 1, 2, time.Minute, time.Minute, 0.5, nil)
	c := newClient(t, srv, apiclient.Options{Breaker: breaker})

	for i := 0; i < 2; i++ {
		err := c.FetchJSON(context.Background(), "summary/today/", nil, nil)
		require.ErrorIs(t, err, apperrors.ErrHTTPStatus)
	}
	err := c.FetchJSON(context.Background(), "summary/today/", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrNetwork)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, hits)
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad weights"}`))
	}))
	defer srv.Close()
	breaker := apiclient.NewBreaker("test", 1, 2, time.Minute, time.Minute, 0.5, nil)
	c := newClient(t, srv, apiclient.Options{Breaker: breaker})

	for i := 0; i < 4; i++ {
		err := c.FetchJSON(context.Background(), "analysis/run/", nil, nil)
		require.ErrorIs(t, err, apperrors.ErrHTTPStatus)
	}
}

func TestPostJSONSendsCSRFTokenFromPrimedCookie(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok-123", Path: "/"})
		case "/api/calc/":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "tok-123", r.Header.Get("X-CSRFToken"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(map[string]any{"echo": body["courses"]})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := newClient(t, srv, apiclient.Options{})

	var out map[string]any
	err := c.PostJSON(context.Background(), "calc/", map[string]any{"courses": []any{}}, &out)
	require.NoError(t, err)
	assert.Equal(t, []any{}, out["echo"])
}

func TestDeleteJSONSendsCSRFTokenWithoutBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/7/delete/":
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "fixed", r.Header.Get("X-CSRFToken"))
			assert.Empty(t, r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"success":true}`))
		case "/api/sessions/8/delete/":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Session not found"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := newClient(t, srv, apiclient.Options{CSRFToken: "fixed"})

	var out struct {
		Success bool `json:"success"`
	}
	require.NoError(t, c.DeleteJSON(context.Background(), "sessions/7/delete/", &out))
	assert.True(t, out.Success)

	err := c.DeleteJSON(context.Background(), "sessions/8/delete/", nil)
	require.ErrorIs(t, err, apperrors.ErrHTTPStatus)
	msg, ok := apperrors.ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Session not found", msg)
}

func TestCSRFTokenOverrideWins(t *testing.T) {
	t.Parallel()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := newClient(t, srv, apiclient.Options{CSRFToken: "fixed", HTTPClient: &http.Client{Jar: jar}})
	assert.Equal(t, "fixed", c.CSRFToken(context.Background()))
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()
	_, err := apiclient.New(apiclient.Options{BaseURL: "localhost:8000"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
