// Package client is a REST client for a running kalam server.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/letters"
	"github.com/ayusman/kalam/internal/plugin"
)

// Client errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kalam: %d %s", e.Status, e.Message)
}

// Unwrap maps the status onto a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return letters.ErrNoModels
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// Classification is the server's answer to a classify or gesture request.
type Classification struct {
	Letter     string              `json:"letter"`
	Score      float64             `json:"score"`
	Candidates []letters.Candidate `json:"candidates"`
	Action     *app.ActionResult   `json:"action,omitempty"`
	Trained    *app.LetterSummary  `json:"trained,omitempty"`
}

// Health is the /api/health payload.
type Health struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Letters  int    `json:"letters"`
	Training bool   `json:"training"`
}

type gesture struct {
	Label string    `json:"letter,omitempty"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// Client talks to the kalam HTTP API.
type Client struct {
	rest *resty.Client
}

// New creates a Client for the server at base, e.g. "http://localhost:8080".
func New(base string, timeout time.Duration) *Client {
	r := resty.New().SetBaseURL(base)
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second)
	}
	return &Client{rest: r}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	req := c.rest.R().SetContext(ctx).SetError(&errorResponse{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*errorResponse); ok && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

func letterPath(label string) string {
	return "/api/letters/" + url.PathEscape(label)
}

// Health reports server status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// AddExample trains label on one gesture.
func (c *Client) AddExample(ctx context.Context, label string, x, y []float64) (*app.LetterSummary, error) {
	var s app.LetterSummary
	if err := c.do(ctx, http.MethodPost, letterPath(label)+"/examples", gesture{X: x, Y: y}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Classify ranks a gesture against the trained letters.
func (c *Client) Classify(ctx context.Context, x, y []float64) (*Classification, error) {
	var out Classification
	if err := c.do(ctx, http.MethodPost, "/api/classify", gesture{X: x, Y: y}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Gesture submits a finished stroke, trained on first when training mode is on.
func (c *Client) Gesture(ctx context.Context, label string, x, y []float64) (*Classification, error) {
	var out Classification
	if err := c.do(ctx, http.MethodPost, "/api/gestures", gesture{Label: label, X: x, Y: y}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Letters lists the trained letters.
func (c *Client) Letters(ctx context.Context) ([]app.LetterSummary, error) {
	var out struct {
		Letters []app.LetterSummary `json:"letters"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/letters", nil, &out); err != nil {
		return nil, err
	}
	return out.Letters, nil
}

// RemoveLetter deletes one letter.
func (c *Client) RemoveLetter(ctx context.Context, label string) error {
	return c.do(ctx, http.MethodDelete, letterPath(label), nil, nil)
}

// Clear deletes every letter.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/letters", nil, nil)
}

// Snapshot downloads all letters.
func (c *Client) Snapshot(ctx context.Context) (*letters.Snapshot, error) {
	var snap letters.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/snapshot", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Import replaces the server's letters with snap.
func (c *Client) Import(ctx context.Context, snap letters.Snapshot) error {
	return c.do(ctx, http.MethodPut, "/api/snapshot", snap, nil)
}

type trainingState struct {
	Training bool `json:"training"`
}

// Training reports whether training mode is on.
func (c *Client) Training(ctx context.Context) (bool, error) {
	var s trainingState
	if err := c.do(ctx, http.MethodGet, "/api/training", nil, &s); err != nil {
		return false, err
	}
	return s.Training, nil
}

// SetTraining switches training mode.
func (c *Client) SetTraining(ctx context.Context, on bool) error {
	return c.do(ctx, http.MethodPut, "/api/training", trainingState{Training: on}, nil)
}

// Bindings lists letter to action bindings.
func (c *Client) Bindings(ctx context.Context) ([]plugin.Binding, error) {
	var out struct {
		Actions []plugin.Binding `json:"actions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/actions", nil, &out); err != nil {
		return nil, err
	}
	return out.Actions, nil
}
