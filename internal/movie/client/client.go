// Package client is the HTTP client moviectl uses to talk to the movie API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"cinedex/internal/movie/models"
	"cinedex/internal/movie/validation"
	id "cinedex/pkg/domain"
)

// APIError is a non-2xx answer from the API. Message is taken from the body's
// "error" or "message" key.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// Client calls the /movies resource.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]*models.Movie, error) {
	var movies []*models.Movie
	if err := c.do(ctx, http.MethodGet, "/movies", nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) Get(ctx context.Context, movieID id.MovieID) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodGet, "/movies/"+movieID.String(), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Create sends already validated fields.
func (c *Client) Create(ctx context.Context, fields models.Fields) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodPost, "/movies", validation.FromInput(fields), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *Client) Update(ctx context.Context, movieID id.MovieID, fields models.Fields) (*models.Movie, error) {
	var movie models.Movie
	if err := c.do(ctx, http.MethodPut, "/movies/"+movieID.String(), validation.FromInput(fields), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *Client) Delete(ctx context.Context, movieID id.MovieID) error {
	return c.do(ctx, http.MethodDelete, "/movies/"+movieID.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	var body struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	if json.Unmarshal(data, &body) != nil {
		return apiErr
	}
	switch {
	case body.Error != "":
		apiErr.Message = body.Error
	case body.Message != "":
		apiErr.Message = body.Message
	}
	apiErr.Fields = body.Fields
	return apiErr
}
