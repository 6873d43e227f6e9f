package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
)

const (
	restPath                    = "rest/v1"
	defaultTimeout              = 15 * time.Second
	responseBodyReadLimit int64 = 4096
)

var (
	errBaseURLRequired = errors.New("supabase url is required")
	errAPIKeyRequired  = errors.New("supabase api key is required")
)

// Client talks to the PostgREST endpoint exposed by a Supabase project.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a PostgREST client for the project at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	trimmedURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedURL == "" {
		return nil, errBaseURLRequired
	}
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		baseURL:    trimmedURL,
		apiKey:     trimmedKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// NewFromConfig builds a client from the Supabase configuration block.
func NewFromConfig(cfg config.SupabaseConfig, opts ...Option) (*Client, error) {
	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	return NewClient(cfg.URL, cfg.AnonKey, opts...)
}

// Error is the structured error body returned by PostgREST.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return fmt.Sprintf("postgrest status %d", e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest %s: %s", e.Code, e.Message)
	}
	return e.Message
}

// RPC invokes a Postgres function through /rest/v1/rpc/<fn>. When out is non-nil the
// response body is decoded into it.
func (c *Client) RPC(ctx context.Context, fn string, params any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "supabase client not configured")
	}
	name := strings.TrimSpace(fn)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rpc function name is required")
	}
	return c.do(ctx, http.MethodPost, "rpc/"+url.PathEscape(name), nil, params, nil, out, "rpc "+name)
}

// Insert writes a single row into table.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "supabase client not configured")
	}
	name := strings.TrimSpace(table)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table name is required")
	}
	headers := map[string]string{"Prefer": "return=minimal"}
	return c.do(ctx, http.MethodPost, url.PathEscape(name), nil, row, headers, nil, "insert "+name)
}

// Select reads rows from table. query carries PostgREST filters such as
// is_published=eq.true; select=* is added when absent.
func (c *Client) Select(ctx context.Context, table string, query url.Values, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "supabase client not configured")
	}
	name := strings.TrimSpace(table)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table name is required")
	}
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	if q.Get("select") == "" {
		q.Set("select", "*")
	}
	return c.do(ctx, http.MethodGet, url.PathEscape(name), q, nil, nil, out, "select "+name)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string, out any, op string) error {
	endpoint := c.buildURL(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("marshal %s request", op))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", op))
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", op))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, decodeError(resp), fmt.Sprintf("%s request failed", op))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", op))
	}
	return nil
}

func decodeError(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	apiErr := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

// ErrorMessage returns the PostgREST message carried by err, if any.
func ErrorMessage(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message, true
	}
	return "", false
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, restPath, strings.TrimLeft(path, "/"))
}
