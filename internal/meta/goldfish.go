package meta

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// ErrUnsupportedFormat is returned for a format MTGGoldfish is not
// scraped for.
var ErrUnsupportedFormat = errors.New("unsupported format")

// SupportedFormats lists the Arena formats with MTGGoldfish metagame
// pages. Brawl is singleton without sideboards and is not scraped.
var SupportedFormats = []string{"standard", "historic", "explorer", "timeless"}

// NormalizeFormat lowercases format and checks that it is supported.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if !slices.Contains(SupportedFormats, f) {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, format, strings.Join(SupportedFormats, ", "))
	}
	return f, nil
}

// GoldfishClient fetches meta decks from MTGGoldfish.
type GoldfishClient struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	cache       *MetaCache
	cacheTTL    time.Duration
	rateLimiter *rate.Limiter
}

// GoldfishConfig configures the Goldfish client.
type GoldfishConfig struct {
	// BaseURL is the MTGGoldfish base URL.
	BaseURL string

	// CacheTTL is how long to cache metagame pages.
	CacheTTL time.Duration

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout time.Duration

	// RateLimit is the minimum time between requests.
	RateLimit time.Duration
}

// DefaultGoldfishConfig returns default configuration.
func DefaultGoldfishConfig() *GoldfishConfig {
	return &GoldfishConfig{
		BaseURL:        "https://www.mtggoldfish.com",
		CacheTTL:       4 * time.Hour,
		RequestTimeout: 30 * time.Second,
		RateLimit:      time.Second,
	}
}

// FormatMeta is the parsed metagame page of one format.
type FormatMeta struct {
	Format      string         `json:"format"`
	Decks       []*DeckSummary `json:"decks"`
	LastUpdated time.Time      `json:"last_updated"`
	Source      string         `json:"source"`
}

// MetaCache caches metagame pages per format.
type MetaCache struct {
	data map[string]*CacheEntry
	mu   sync.RWMutex
}

// CacheEntry represents a cached meta entry.
type CacheEntry struct {
	Meta      *FormatMeta
	ExpiresAt time.Time
}

// NewGoldfishClient creates a new MTGGoldfish client.
func NewGoldfishClient(config *GoldfishConfig) *GoldfishClient {
	def := DefaultGoldfishConfig()
	if config == nil {
		config = def
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = def.BaseURL
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = def.RequestTimeout
	}
	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Every(config.RateLimit)
	}

	return &GoldfishClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   "ForgeBreaker/1.0 (MTG Arena Collection Manager)",
		cacheTTL:    config.CacheTTL,
		rateLimiter: rate.NewLimiter(limit, 1),
		cache: &MetaCache{
			data: make(map[string]*CacheEntry),
		},
	}
}

// GetMeta retrieves the metagame summaries for a format.
func (c *GoldfishClient) GetMeta(ctx context.Context, format string) (*FormatMeta, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	// Check cache first
	if cached := c.getFromCache(format); cached != nil {
		return cached, nil
	}

	html, err := c.fetch(ctx, c.baseURL+"/metagame/"+format)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s metagame: %w", format, err)
	}

	meta := &FormatMeta{
		Format:      format,
		Decks:       ParseMetagamePage(html, format, c.baseURL),
		LastUpdated: time.Now(),
		Source:      "mtggoldfish",
	}
	c.setCache(format, meta)

	return meta, nil
}

// GetDeck fetches and parses the deck page of summary.
func (c *GoldfishClient) GetDeck(ctx context.Context, summary *DeckSummary) (*deck.Deck, error) {
	html, err := c.fetch(ctx, summary.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deck %q: %w", summary.Name, err)
	}
	return ParseDeckPage(html, summary), nil
}

// FetchMetaDecks fetches the top limit decks of a format with their
// full lists. A non-positive limit fetches every deck on the page.
func (c *GoldfishClient) FetchMetaDecks(ctx context.Context, format string, limit int) ([]*deck.Deck, error) {
	meta, err := c.GetMeta(ctx, format)
	if err != nil {
		return nil, err
	}

	summaries := meta.Decks
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}

	decks := make([]*deck.Deck, 0, len(summaries))
	for _, summary := range summaries {
		d, err := c.GetDeck(ctx, summary)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// fetch performs a rate limited GET and returns the body.
func (c *GoldfishClient) fetch(ctx context.Context, url string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// getFromCache retrieves meta from cache if not expired.
func (c *GoldfishClient) getFromCache(format string) *FormatMeta {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	entry, exists := c.cache.data[format]
	if !exists {
		return nil
	}

	if time.Now().After(entry.ExpiresAt) {
		return nil
	}

	return entry.Meta
}

// setCache stores meta in cache.
func (c *GoldfishClient) setCache(format string, meta *FormatMeta) {
	if c.cacheTTL <= 0 {
		return
	}

	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.data[format] = &CacheEntry{
		Meta:      meta,
		ExpiresAt: time.Now().Add(c.cacheTTL),
	}
}

// ClearCache clears the meta cache.
func (c *GoldfishClient) ClearCache() {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.data = make(map[string]*CacheEntry)
}

// GetCacheStatus returns cache status for a format.
func (c *GoldfishClient) GetCacheStatus(format string) (cached bool, expiresAt time.Time) {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	entry, exists := c.cache.data[strings.ToLower(format)]
	if !exists {
		return false, time.Time{}
	}

	return true, entry.ExpiresAt
}
