package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mediarenamer/internal/lookup"
	"mediarenamer/internal/media"
)

// DefaultBaseURL is the TheTVDB v4 API root.
const DefaultBaseURL = "https://api4.thetvdb.com/v4"

// ErrUnauthenticated is returned by Search before a successful Authenticate.
var ErrUnauthenticated = errors.New("tvdb: not authenticated")

// HTTPError reports a non-200 response.
type HTTPError struct {
	StatusCode int
	Endpoint   string
	Latency    time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("tvdb %s returned %d (latency=%v)", e.Endpoint, e.StatusCode, e.Latency)
}

// Result is one entry of a /search response.
type Result struct {
	Name   string `json:"name"`
	Year   string `json:"year"`
	TVDBID string `json:"tvdb_id"`
	Type   string `json:"type"`
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type loginData struct {
	Token string `json:"token"`
}

// Client provides access to the TheTVDB v4 search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ lookup.Searcher = (*Client)(nil)

// Option configures a Client.
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
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a TVDB client. An empty baseURL selects DefaultBaseURL.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tvdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Authenticate exchanges the API key for a bearer token.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var payload envelope[loginData]
	if err := c.do(req, "login", &payload); err != nil {
		return err
	}
	token := strings.TrimSpace(payload.Data.Token)
	if token == "" {
		return errors.New("tvdb login returned an empty token")
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// Search queries /search for title restricted to kind and returns the results
// in response order.
func (c *Client) Search(ctx context.Context, title string, kind media.Kind) ([]lookup.Candidate, error) {
	results, err := c.SearchResults(ctx, title, kind)
	if err != nil {
		return nil, err
	}
	candidates := make([]lookup.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, lookup.Candidate{Name: r.Name, Year: r.Year, ID: r.TVDBID})
	}
	return candidates, nil
}

// SearchResults returns the raw /search results.
func (c *Client) SearchResults(ctx context.Context, title string, kind media.Kind) ([]Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("query must not be empty")
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return nil, ErrUnauthenticated
	}

	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse tvdb url: %w", err)
	}
	params := url.Values{}
	params.Set("q", title)
	params.Set("type", string(kind))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	var payload envelope[[]Result]
	if err := c.do(req, "search", &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute %s request (latency=%v): %w", endpoint, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Endpoint: endpoint, Latency: latency}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tvdb response: %w", err)
	}
	return nil
}
