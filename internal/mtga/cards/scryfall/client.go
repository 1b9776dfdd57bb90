package scryfall

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	baseURL        = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second

	// DefaultCardsType is the bulk file with one entry per English printing.
	DefaultCardsType = "default_cards"
)

// Config configures a Client. Zero fields take defaults.
type Config struct {
	BaseURL        string
	UserAgent      string
	RateLimitDelay time.Duration
	InitialBackoff time.Duration
	MaxRetries     int
	// DownloadTimeout bounds a bulk file download. Zero means no limit
	// beyond the request context.
	DownloadTimeout time.Duration
}

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient     *http.Client
	downloadClient *http.Client
	rateLimiter    *rate.Limiter
	baseURL        string
	userAgent      string
	initialBackoff time.Duration
	maxRetries     int
}

// NewClient creates a new Scryfall API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "ForgeBreaker/1.0"
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = rateLimitDelay
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = initialBackoff
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = maxRetries
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		downloadClient: &http.Client{
			Timeout: cfg.DownloadTimeout,
		},
		rateLimiter:    rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1),
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		initialBackoff: cfg.InitialBackoff,
		maxRetries:     cfg.MaxRetries,
	}
}

// GetBulkData retrieves bulk data download information.
func (c *Client) GetBulkData(ctx context.Context) (*BulkDataList, error) {
	url := fmt.Sprintf("%s/bulk-data", c.baseURL)

	var bulkData BulkDataList
	if err := c.doRequest(ctx, url, &bulkData); err != nil {
		return nil, fmt.Errorf("failed to get bulk data: %w", err)
	}

	return &bulkData, nil
}

// FindBulkData returns the bulk file of the given type.
func (c *Client) FindBulkData(ctx context.Context, bulkType string) (*BulkData, error) {
	list, err := c.GetBulkData(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list.Data {
		if list.Data[i].Type == bulkType {
			return &list.Data[i], nil
		}
	}
	return nil, fmt.Errorf("%s bulk data not found", bulkType)
}

// DownloadResult describes a completed bulk download.
type DownloadResult struct {
	Path      string
	Bytes     int64
	UpdatedAt time.Time
	Duration  time.Duration
}

// Download streams the bulk file of bulkType to destPath. The file is
// written to a temporary file in the same directory and renamed into
// place, so a watcher on destPath never sees a partial file.
func (c *Client) Download(ctx context.Context, bulkType, destPath string) (*DownloadResult, error) {
	start := time.Now()

	info, err := c.FindBulkData(ctx, bulkType)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.DownloadURI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download bulk file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(info.DownloadURI, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() { _ = gz.Close() }()
		body = gz
	}

	tmpFile, err := os.CreateTemp(dir, "bulk-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	written, err := io.Copy(tmpFile, body)
	if err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to rename file: %w", err)
	}

	return &DownloadResult{
		Path:      destPath,
		Bytes:     written,
		UpdatedAt: info.UpdatedAt,
		Duration:  time.Since(start),
	}, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			// Retry on network errors
			if attempt < c.maxRetries {
				if err := sleep(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		done, err := c.handleResponse(resp, url, result)
		if done {
			return err
		}
		lastErr = err

		if attempt < c.maxRetries {
			wait := backoff
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if secs, err := strconv.Atoi(retryAfter); err == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse decodes resp into result. done is false when the
// request should be retried.
func (c *Client) handleResponse(resp *http.Response, url string, result any) (done bool, err error) {
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return true, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return true, nil

	case http.StatusTooManyRequests:
		return false, fmt.Errorf("rate limited (HTTP 429)")

	case http.StatusNotFound:
		return true, &NotFoundError{URL: url}

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return true, &apiErr
		}
		return true, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
