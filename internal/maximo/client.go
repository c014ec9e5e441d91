// Package maximo talks to the asset-management server's OSLC JSON API.
// Every href passes through a urlfix.Normalizer before it is requested.
package maximo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rogersnm/fieldwork/internal/urlfix"
	"go.uber.org/zap"
)

// Credentials are encoded into the auth headers of each request and never
// retained elsewhere.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) encoded() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
}

// Client is an HTTP client bound to one server origin.
type Client struct {
	urls   *urlfix.Normalizer
	client *http.Client
	accept func(status int) bool
	log    *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// WithAccept sets which HTTP status codes count as success. The default
// accepts 2xx.
func WithAccept(fn func(status int) bool) Option {
	return func(c *Client) { c.accept = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(urls *urlfix.Normalizer, opts ...Option) *Client {
	c := &Client{
		urls:   urls,
		client: &http.Client{Timeout: 30 * time.Second},
		accept: Success,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Success accepts any 2xx status.
func Success(status int) bool {
	return status >= 200 && status < 300
}

// --- HTTP helpers ---

func (c *Client) doJSON(ctx context.Context, creds Credentials, method, href string, headers map[string]string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, href, bodyReader)
	if err != nil {
		return nil, err
	}
	auth := creds.encoded()
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("maxauth", auth)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("url", href), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, href, err)
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("url", href),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// APIError is an HTTP status the client did not accept.
type APIError struct {
	StatusCode int
	ReasonCode string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

type apiError struct {
	Error *struct {
		Message    string `json:"message"`
		ReasonCode string `json:"reasonCode"`
	} `json:"Error"`
	OSLCError *struct {
		Message    string `json:"oslc:message"`
		ReasonCode string `json:"spi:reasonCode"`
	} `json:"oslc:Error"`
}

func (c *Client) checkStatus(resp *http.Response) error {
	if c.accept(resp.StatusCode) {
		return nil
	}
	e := &APIError{StatusCode: resp.StatusCode}
	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch {
		case body.Error != nil:
			e.Message, e.ReasonCode = body.Error.Message, body.Error.ReasonCode
		case body.OSLCError != nil:
			e.Message, e.ReasonCode = body.OSLCError.Message, body.OSLCError.ReasonCode
		}
	}
	return e
}

func decodeResponse[T any](c *Client, resp *http.Response) (T, error) {
	defer resp.Body.Close()
	var zero T

	if err := c.checkStatus(resp); err != nil {
		return zero, err
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

// discardResponse checks the status of a response whose body is not needed
// (writes typically answer 204).
func (c *Client) discardResponse(resp *http.Response) error {
	defer resp.Body.Close()
	if err := c.checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) get(ctx context.Context, creds Credentials, href string, q url.Values) (*http.Response, error) {
	return c.doJSON(ctx, creds, http.MethodGet, c.urls.Resolve(href, q), nil, nil)
}

// patch sends a partial update as a POST with a method override, which is
// the only form of PATCH the server accepts.
func (c *Client) patch(ctx context.Context, creds Credentials, href string, body any) error {
	headers := map[string]string{
		"x-method-override": "PATCH",
		"patchtype":         "MERGE",
	}
	resp, err := c.doJSON(ctx, creds, http.MethodPost, c.urls.Resolve(href, lean()), headers, body)
	if err != nil {
		return err
	}
	return c.discardResponse(resp)
}

func (c *Client) post(ctx context.Context, creds Credentials, href string, body any) error {
	resp, err := c.doJSON(ctx, creds, http.MethodPost, c.urls.Resolve(href, lean()), nil, body)
	if err != nil {
		return err
	}
	return c.discardResponse(resp)
}

func lean() url.Values {
	return url.Values{"lean": {"1"}}
}
