package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtnitsch/intermediate-db/pkg/caching"
)

// maxBodyBytes bounds a single page.
const maxBodyBytes = 32 << 20

type Options struct {
	UserAgent string
	Timeout   time.Duration
	Cache     *caching.Cache // optional
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	cache     *caching.Cache
}

func NewFetcher(opts Options) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		cache:     opts.Cache,
	}
}

// GetHtmlBytes returns the body of url, from the cache when it holds a
// fresh copy. Only 200 responses are returned and cached.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if f.cache != nil {
		if err := f.cache.Set(url, bodyBytes); err != nil {
			return nil, err
		}
	}
	return bodyBytes, nil
}
