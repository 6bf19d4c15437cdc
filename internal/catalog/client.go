// Package catalog proxies title metadata lookups to the configured
// upstream API. The server holds the API key; responses pass through to
// the caller with the upstream's status and body untouched.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cinelog/cinelog-server/internal/metrics"
)

// Result is one upstream reply. Non-2xx replies are results too; only
// transport failures are errors.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *Cache
}

// NewClient builds an upstream client. cache may be nil, which disables
// response caching and makes every call hit the upstream.
func NewClient(baseURL, apiKey string, timeout time.Duration, cache *Cache) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
	}
}

func (c *Client) Trending(ctx context.Context) (*Result, error) {
	return c.get(ctx, "/trending/all/week", nil)
}

func (c *Client) Search(ctx context.Context, query string, page int) (*Result, error) {
	params := url.Values{}
	params.Set("query", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return c.get(ctx, "/search/multi", params)
}

func (c *Client) TitleByID(ctx context.Context, id string) (*Result, error) {
	return c.get(ctx, "/movie/"+url.PathEscape(id), nil)
}

func (c *Client) Similar(ctx context.Context, id string) (*Result, error) {
	return c.get(ctx, "/movie/"+url.PathEscape(id)+"/similar", nil)
}

func (c *Client) Genres(ctx context.Context) (*Result, error) {
	return c.get(ctx, "/genre/movie/list", nil)
}

// get performs one upstream call, no retries. The path+query string
// doubles as the cache key; only 200 bodies are cached.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*Result, error) {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			metrics.CatalogCacheHits.Inc()
			return &Result{
				Status:      http.StatusOK,
				ContentType: "application/json",
				Body:        body,
			}, nil
		}
		metrics.CatalogCacheMisses.Inc()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogUpstreamErrors.Inc()
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogUpstreamErrors.Inc()
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if c.cache != nil && resp.StatusCode == http.StatusOK {
		c.cache.Set(ctx, key, body)
	}

	return &Result{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
