package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tsukino/aniwatch/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public catalogue API root
	DefaultBaseURL = "https://api.jikan.moe/v4"

	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 1 * time.Second

	// The API allows roughly 3 requests per second; pacing client-side
	// keeps bursts below the threshold independently of the 429 path.
	requestsPerSecond = 3

	userAgent = "aniwatch/1.0"
)

// weekdays in schedule order; the API filters one day per request
var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Client implements domain.CatalogueRepository against the Jikan API.
// Every request carries the same retry contract: up to maxRetries extra
// attempts on HTTP 429 with exponential backoff, fail-fast on anything else.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
	maxRetries  uint64
	backoffBase time.Duration
}

// NewClient creates a catalogue API client with the default retry policy
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:      logger,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
	}
}

// SetRetryPolicy overrides the 429 retry budget and initial backoff delay
func (c *Client) SetRetryPolicy(maxRetries uint64, backoffBase time.Duration) {
	c.maxRetries = maxRetries
	c.backoffBase = backoffBase
}

// doRequest performs a GET with rate pacing and 429 retry.
// Backoff delays double from backoffBase; a cancelled context aborts mid-wait.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body []byte
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		c.logger.Debug("catalogue request", "url", reqURL)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport failure: propagate, no retry
			return fmt.Errorf("catalogue request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("rate limited, backing off", "url", reqURL)
			return retry.RetryableError(domain.ErrRateLimited)
		}
		if resp.StatusCode != http.StatusOK {
			return &domain.APIError{Status: resp.StatusCode}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values) ([]domain.Anime, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return mapAll(resp.Data), nil
}

// GetTop returns the top-ranked titles
func (c *Client) GetTop(ctx context.Context, limit int) ([]domain.Anime, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return c.getList(ctx, "/top/anime", query)
}

// GetSeasonNow returns titles airing in the current season
func (c *Client) GetSeasonNow(ctx context.Context, limit int) ([]domain.Anime, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return c.getList(ctx, "/seasons/now", query)
}

// GetAnimeByID returns a single title with its synthesized season structure
func (c *Client) GetAnimeByID(ctx context.Context, id string) (*domain.Anime, error) {
	body, err := c.doRequest(ctx, "/anime/"+url.PathEscape(id), nil)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, domain.ErrAnimeNotFound
		}
		return nil, err
	}

	var resp singleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	anime := MapAnime(resp.Data)
	return &anime, nil
}

// Search performs a server-side title search
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.Anime, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	return c.getList(ctx, "/anime", params)
}

// GetSchedule returns the weekly airing schedule keyed by lowercase weekday.
// The seven per-day fetches are issued one at a time on purpose: running them
// concurrently would multiply the request rate against the remote service.
// Any single day failing aborts the whole schedule; no partial result.
func (c *Client) GetSchedule(ctx context.Context) (map[string][]domain.Anime, error) {
	schedule := make(map[string][]domain.Anime, len(weekdays))

	for _, day := range weekdays {
		query := url.Values{}
		query.Set("filter", day)
		animes, err := c.getList(ctx, "/schedules", query)
		if err != nil {
			return nil, fmt.Errorf("schedule fetch for %s: %w", day, err)
		}
		schedule[day] = animes
	}
	return schedule, nil
}
