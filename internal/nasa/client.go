package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher defines the feeds the explorer reads. It is implemented by *Client
// and can be faked in tests.
type Fetcher interface {
	FetchAPOD(ctx context.Context) (*APOD, error)
	FetchRoverPhotos(ctx context.Context, rover Rover, sol int) (*RoverPhotosResponse, error)
	FetchNeoFeed(ctx context.Context, date string) (*NeoFeed, error)
	FetchEPIC(ctx context.Context) ([]EPICImage, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Observer is notified after every upstream request completes.
type Observer func(endpoint Endpoint, elapsed time.Duration, err error)

// Client talks to the NASA open API gateway.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
	observe   Observer
}

const (
	// DefaultBaseURL is the public API gateway.
	DefaultBaseURL = "https://api.nasa.gov"
	// DemoKey is the shared, heavily rate-limited key NASA hands out.
	DemoKey = "DEMO_KEY"

	defaultUserAgent = "explorer/0.1"
	requestTimeout   = 30 * time.Second
	maxBodyBytes     = 16 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithObserver registers a callback invoked after every request.
func WithObserver(fn Observer) Option {
	return func(c *Client) { c.observe = fn }
}

// NewClient builds a Client for baseURL, authenticating with apiKey.
// An empty baseURL uses DefaultBaseURL and an empty key uses DemoKey.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = DemoKey
	}
	c := &Client{
		baseURL: base,
		apiKey:  key,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchAPOD retrieves today's Astronomy Picture of the Day.
func (c *Client) FetchAPOD(ctx context.Context) (*APOD, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload APOD
	if err := c.get(ctx, EndpointAPOD, []string{"planetary", "apod"}, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchRoverPhotos retrieves the photos a rover took on the given sol.
func (c *Client) FetchRoverPhotos(ctx context.Context, rover Rover, sol int) (*RoverPhotosResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if !rover.Valid() {
		return nil, fmt.Errorf("unknown rover %q", rover)
	}
	if sol < 1 {
		return nil, fmt.Errorf("sol must be >= 1, got %d", sol)
	}
	values := url.Values{}
	values.Set("sol", strconv.Itoa(sol))
	var payload RoverPhotosResponse
	segments := []string{"mars-photos", "api", "v1", "rovers", string(rover), "photos"}
	if err := c.get(ctx, EndpointRoverPhotos, segments, values, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchNeoFeed retrieves the near-Earth object feed starting at date (YYYY-MM-DD).
func (c *Client) FetchNeoFeed(ctx context.Context, date string) (*NeoFeed, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", date, err)
	}
	values := url.Values{}
	values.Set("start_date", date)
	var payload NeoFeed
	if err := c.get(ctx, EndpointNeoFeed, []string{"neo", "rest", "v1", "feed"}, values, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchEPIC retrieves metadata for the most recent natural-color EPIC images.
func (c *Client) FetchEPIC(ctx context.Context) ([]EPICImage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []EPICImage
	if err := c.get(ctx, EndpointEPIC, []string{"EPIC", "api", "natural", "images"}, nil, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, &DecodeError{Endpoint: EndpointEPIC, Err: fmt.Errorf("expected an array, got null")}
	}
	return payload, nil
}

// ArchiveURL returns the authenticated PNG URL for an EPIC image.
func (c *Client) ArchiveURL(img EPICImage) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	path, err := img.ArchivePath()
	if err != nil {
		return "", err
	}
	u := c.baseURL.JoinPath(strings.Split(strings.TrimPrefix(path, "/"), "/")...)
	u.RawQuery = c.authorize(nil).Encode()
	return u.String(), nil
}

// BaseURL returns the gateway root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// UsingDemoKey reports whether requests authenticate with DEMO_KEY.
func (c *Client) UsingDemoKey() bool {
	return c.apiKey == DemoKey
}

func (c *Client) authorize(values url.Values) url.Values {
	if values == nil {
		values = url.Values{}
	}
	values.Set("api_key", c.apiKey)
	return values
}

func (c *Client) get(ctx context.Context, endpoint Endpoint, segments []string, query url.Values, dest any) (err error) {
	start := time.Now()
	if c.observe != nil {
		defer func() { c.observe(endpoint, time.Since(start), err) }()
	}

	reqURL := c.baseURL.JoinPath(segments...)
	reqURL.RawQuery = c.authorize(query).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &requestError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
