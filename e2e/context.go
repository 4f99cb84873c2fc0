package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext holds per-scenario HTTP state shared by the step packages.
type TestContext struct {
	BaseURL      string
	HTTPClient   *http.Client
	LastResponse *http.Response
	LastBody     []byte
	ids          map[string]string
}

// NewTestContext targets CINEDEX_E2E_BASE_URL, defaulting to a local server.
func NewTestContext() *TestContext {
	baseURL := os.Getenv("CINEDEX_E2E_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		ids:        make(map[string]string),
	}
}

// Reset clears the state left by the previous scenario.
func (tc *TestContext) Reset() {
	tc.LastResponse = nil
	tc.LastBody = nil
	tc.ids = make(map[string]string)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

// POST and PUT send raw JSON so scenarios can exercise malformed bodies.
func (tc *TestContext) POST(path, body string) error {
	return tc.do(http.MethodPost, path, strings.NewReader(body))
}

func (tc *TestContext) PUT(path, body string) error {
	return tc.do(http.MethodPut, path, strings.NewReader(body))
}

func (tc *TestContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, tc.BaseURL+tc.Expand(path), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.LastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.LastResponse = resp
	return nil
}

func (tc *TestContext) StatusCode() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

// GetResponseField returns a top-level field of the last JSON object body.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.LastBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", tc.LastBody)
	}
	value, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %s", field, tc.LastBody)
	}
	return value, nil
}

// ResponseArray decodes the last body as a JSON array of objects.
func (tc *TestContext) ResponseArray() ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(tc.LastBody, &items); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %s", tc.LastBody)
	}
	return items, nil
}

// Remember stores an id under a scenario alias such as "heat".
func (tc *TestContext) Remember(alias, id string) {
	tc.ids[alias] = id
}

// Expand replaces {alias} placeholders in a path with remembered ids.
func (tc *TestContext) Expand(path string) string {
	for alias, id := range tc.ids {
		path = strings.ReplaceAll(path, "{"+alias+"}", id)
	}
	return path
}
