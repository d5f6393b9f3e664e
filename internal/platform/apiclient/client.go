package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	apperrors "smarttrack/internal/platform/errors"
)

const maxBodyBytes = 4 << 20

// Observer receives one call per finished request. Outcome is "ok" or the
// apperrors.FetchKind of the failure.
type Observer interface {
	ObserveFetch(method, path, outcome string, elapsed time.Duration)
}

type Options struct {
	BaseURL    string
	Prefix     string
	Timeout    time.Duration
	CSRFCookie string
	CSRFToken  string

	Breaker    *gobreaker.CircuitBreaker
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client talks JSON to the tracker backend.
type Client struct {
	base       *url.URL
	prefix     string
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
	observer   Observer
	log        *zap.Logger
	csrfCookie string
	csrfToken  string
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", apperrors.ErrInvalidInput, opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("new cookie jar: %w", err)
		}
		httpClient = &http.Client{Timeout: opts.Timeout, Jar: jar}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cookie := opts.CSRFCookie
	if cookie == "" {
		cookie = "csrftoken"
	}
	return &Client{
		base:       base,
		prefix:     strings.TrimRight(opts.Prefix, "/"),
		http:       httpClient,
		breaker:    opts.Breaker,
		observer:   opts.Observer,
		log:        logger,
		csrfCookie: cookie,
		csrfToken:  opts.CSRFToken,
	}, nil
}

// NewBreaker builds the circuit breaker shared by every request of a client.
// Only transport failures and 5xx responses count against it.
func NewBreaker(name string, maxRequests, minRequests uint32, interval, timeout time.Duration, ratio float64, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			var fe *apperrors.FetchError
			if errors.As(err, &fe) {
				return fe.Kind != apperrors.KindNetwork && !(fe.Kind == apperrors.KindHTTPStatus && fe.Status >= 500)
			}
			return err == nil
		},
	})
}

// URL resolves an endpoint path below the configured prefix.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + c.prefix + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// FetchJSON GETs path and decodes the body into out. It never substitutes a
// default value: every failure is returned as a *apperrors.FetchError.
func (c *Client) FetchJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, query), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.exchange(req, path, out)
}

// PostJSON sends body as JSON with the CSRF header attached.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.mutate(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

// DeleteJSON sends a DELETE with the CSRF header attached and decodes the
// JSON reply into out when out is non-nil.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) mutate(ctx context.Context, method, path string, body io.Reader, out any) error {
	token := c.CSRFToken(ctx)
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, nil), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRFToken", token)
	return c.exchange(req, path, out)
}

type rawResponse struct {
	status int
	body   []byte
}

func (c *Client) exchange(req *http.Request, path string, out any) (err error) {
	started := time.Now()
	defer func() {
		if c.observer == nil {
			return
		}
		outcome := "ok"
		var fe *apperrors.FetchError
		if errors.As(err, &fe) {
			outcome = string(fe.Kind)
		}
		c.observer.ObserveFetch(req.Method, path, outcome, time.Since(started))
	}()

	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	return c.decode(req, resp, out)
}

func (c *Client) roundTrip(req *http.Request) (*rawResponse, error) {
	call := func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, c.fail(req, apperrors.KindNetwork, 0, "", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, c.fail(req, apperrors.KindNetwork, resp.StatusCode, "", fmt.Errorf("read body: %w", err))
		}
		raw := &rawResponse{status: resp.StatusCode, body: body}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return raw, c.fail(req, apperrors.KindHTTPStatus, resp.StatusCode, serverMessage(body), nil)
		}
		return raw, nil
	}
	if c.breaker == nil {
		raw, err := call()
		if err != nil {
			return nil, err
		}
		return raw.(*rawResponse), nil
	}
	raw, err := c.breaker.Execute(call)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, c.fail(req, apperrors.KindNetwork, 0, "", err)
		}
		return nil, err
	}
	return raw.(*rawResponse), nil
}

func (c *Client) decode(req *http.Request, resp *rawResponse, out any) error {
	if msg := serverMessage(resp.body); msg != "" {
		return c.fail(req, apperrors.KindServerReported, resp.status, msg, nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return c.fail(req, apperrors.KindParse, resp.status, "", err)
	}
	return nil
}

func (c *Client) fail(req *http.Request, kind apperrors.FetchKind, status int, msg string, cause error) error {
	err := &apperrors.FetchError{
		Kind:    kind,
		Method:  req.Method,
		URL:     req.URL.String(),
		Status:  status,
		Message: msg,
		Err:     cause,
	}
	c.log.Debug("fetch failed", zap.String("kind", string(kind)), zap.String("url", err.URL), zap.Int("status", status), zap.Error(cause))
	return err
}

// serverMessage extracts a non-empty top-level "error" string from a JSON object.
func serverMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return ""
	}
	return strings.TrimSpace(envelope.Error)
}
