// Package client is a Go client for the projectd HTTP API.
package client

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
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

// Project mirrors the server's project representation.
type Project struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tasks []string `json:"tasks"`
}

// Health is the response of GET /health.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	// Message is the server's "error" field, or the raw body when absent.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// IsBadRequest reports whether err is an APIError with status 400.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// Client calls a projectd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New returns a client for the server at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns all projects.
func (c *Client) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Create adds a project and returns the updated list.
func (c *Client) Create(ctx context.Context, id, title string) ([]Project, error) {
	var projects []Project
	body := map[string]string{"id": id, "title": title}
	if err := c.do(ctx, http.MethodPost, "/projects", body, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// AddTask appends a task to project id and returns the updated list.
func (c *Client) AddTask(ctx context.Context, id, title string) ([]Project, error) {
	var projects []Project
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, projectPath(id)+"/tasks", body, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Rename sets the title of project id and returns the updated list.
func (c *Client) Rename(ctx context.Context, id, title string) ([]Project, error) {
	var projects []Project
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPut, projectPath(id), body, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes project id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

// Health checks server health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, err)
	}

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
