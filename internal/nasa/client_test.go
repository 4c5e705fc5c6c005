package nasa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/proxy/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/proxy" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("api.example.org")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "api.example.org" {
		t.Fatalf("url = %q, want https://api.example.org", u.String())
	}
}

func TestNewClient_EmptyKeyUsesDemoKey(t *testing.T) {
	c, err := NewClient("", "  ")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if !c.UsingDemoKey() {
		t.Fatalf("UsingDemoKey = false, want true")
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	queries := map[string]url.Values{}
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries[r.URL.Path] = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/planetary/apod":
			_, _ = w.Write([]byte(`{"date":"2026-10-19","title":"Pillars","media_type":"image","url":"https://apod/x.jpg","copyright":"Someone"}`))
		case "/mars-photos/api/v1/rovers/perseverance/photos":
			_, _ = w.Write([]byte(`{"photos":[{"id":7,"sol":12,"img_src":"https://mars/7.jpg","earth_date":"2021-03-02","camera":{"full_name":"Navigation Camera"}}]}`))
		case "/neo/rest/v1/feed":
			_, _ = w.Write([]byte(`{"element_count":1,"near_earth_objects":{"2026-10-19":[{"id":"1","name":"(2026 AB)","is_potentially_hazardous_asteroid":true}]}}`))
		case "/EPIC/api/natural/images":
			_, _ = w.Write([]byte(`[{"identifier":"a","image":"epic_1b_1","date":"2026-10-18 00:13:03","caption":"Earth"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "secret")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	apod, err := c.FetchAPOD(ctx)
	if err != nil {
		t.Fatalf("FetchAPOD returned error: %v", err)
	}
	if apod.Title != "Pillars" || !apod.IsImage() || apod.Copyright != "Someone" {
		t.Fatalf("FetchAPOD payload = %#v", apod)
	}

	photos, err := c.FetchRoverPhotos(ctx, Perseverance, 12)
	if err != nil {
		t.Fatalf("FetchRoverPhotos returned error: %v", err)
	}
	if len(photos.Photos) != 1 || photos.Photos[0].Camera.FullName != "Navigation Camera" {
		t.Fatalf("FetchRoverPhotos payload = %#v", photos)
	}

	feed, err := c.FetchNeoFeed(ctx, "2026-10-19")
	if err != nil {
		t.Fatalf("FetchNeoFeed returned error: %v", err)
	}
	bucket, ok := feed.Bucket("2026-10-19")
	if !ok || len(bucket) != 1 || !bucket[0].PotentiallyHazardous {
		t.Fatalf("FetchNeoFeed bucket = %#v, ok=%v", bucket, ok)
	}

	images, err := c.FetchEPIC(ctx)
	if err != nil {
		t.Fatalf("FetchEPIC returned error: %v", err)
	}
	if len(images) != 1 || images[0].Image != "epic_1b_1" {
		t.Fatalf("FetchEPIC payload = %#v", images)
	}

	mu.Lock()
	defer mu.Unlock()
	for path, q := range queries {
		if q.Get("api_key") != "secret" {
			t.Fatalf("%s api_key = %q, want secret", path, q.Get("api_key"))
		}
	}
	if got := queries["/mars-photos/api/v1/rovers/perseverance/photos"].Get("sol"); got != "12" {
		t.Fatalf("sol = %q, want 12", got)
	}
	if got := queries["/neo/rest/v1/feed"].Get("start_date"); got != "2026-10-19" {
		t.Fatalf("start_date = %q, want 2026-10-19", got)
	}
	if !strings.HasPrefix(gotUserAgent, "explorer/") {
		t.Fatalf("User-Agent = %q, want explorer/*", gotUserAgent)
	}
}

func TestClient_StatusAndDecodeErrorsAreTyped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/planetary/apod":
			http.Error(w, "slow down", http.StatusTooManyRequests)
		case "/mars-photos/api/v1/rovers/curiosity/photos":
			_, _ = w.Write([]byte("{not-json"))
		case "/EPIC/api/natural/images":
			_, _ = w.Write([]byte("null"))
		case "/neo/rest/v1/feed":
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.FetchAPOD(ctx)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusTooManyRequests {
		t.Fatalf("FetchAPOD error = %v, want 429 StatusError", err)
	}
	if Classify(err) != ReasonRateLimited {
		t.Fatalf("Classify = %v, want rate_limited", Classify(err))
	}

	_, err = c.FetchRoverPhotos(ctx, Curiosity, 1000)
	if !IsDecodeError(err) {
		t.Fatalf("FetchRoverPhotos error = %v, want DecodeError", err)
	}

	_, err = c.FetchEPIC(ctx)
	if !IsDecodeError(err) {
		t.Fatalf("FetchEPIC null error = %v, want DecodeError", err)
	}

	_, err = c.FetchNeoFeed(ctx, "2026-10-19")
	if Classify(err) != ReasonUnauthorized {
		t.Fatalf("Classify = %v, want unauthorized", Classify(err))
	}
}

func TestClient_TransportErrorClassifiedAsNetwork(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := NewClient(base, "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchAPOD(context.Background())
	if err == nil {
		t.Fatalf("FetchAPOD returned nil error against closed server")
	}
	if Classify(err) != ReasonNetwork {
		t.Fatalf("Classify = %v, want network", Classify(err))
	}
	if IsDecodeError(err) {
		t.Fatalf("transport error must not be a DecodeError")
	}
}

func TestClient_ValidatesArgumentsBeforeRequest(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchRoverPhotos(context.Background(), Rover("sojourner"), 1); err == nil {
		t.Fatalf("FetchRoverPhotos accepted unknown rover")
	}
	if _, err := c.FetchRoverPhotos(context.Background(), Curiosity, 0); err == nil {
		t.Fatalf("FetchRoverPhotos accepted sol 0")
	}
	if _, err := c.FetchNeoFeed(context.Background(), "19/10/2026"); err == nil {
		t.Fatalf("FetchNeoFeed accepted malformed date")
	}
}

func TestClient_ObserverSeesEveryRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	var seen []Endpoint
	var lastErr error
	c, err := NewClient(server.URL, "k", WithObserver(func(ep Endpoint, _ time.Duration, err error) {
		seen = append(seen, ep)
		lastErr = err
	}))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, _ = c.FetchAPOD(context.Background())
	if len(seen) != 1 || seen[0] != EndpointAPOD {
		t.Fatalf("observer saw %v, want [apod]", seen)
	}
	if Classify(lastErr) != ReasonUpstream {
		t.Fatalf("observer error = %v, want upstream status error", lastErr)
	}
}

func TestClient_ArchiveURL(t *testing.T) {
	c, err := NewClient("https://api.nasa.gov", "k")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	got, err := c.ArchiveURL(EPICImage{Image: "epic_1b_20240501001303", Date: "2024-05-01 00:13:03"})
	if err != nil {
		t.Fatalf("ArchiveURL returned error: %v", err)
	}
	want := "https://api.nasa.gov/EPIC/archive/natural/2024/05/01/png/epic_1b_20240501001303.png?api_key=k"
	if got != want {
		t.Fatalf("ArchiveURL = %q, want %q", got, want)
	}
}
