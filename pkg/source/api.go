package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"content-sync/pkg/domain"
	"content-sync/pkg/httpclient"
	"content-sync/pkg/logger"
)

// APIConfig holds configuration for APIClient
type APIConfig struct {
	BaseURL string
	// RetryAttempts is the total number of tries per page request
	RetryAttempts int
	// Delay spaces consecutive page requests
	Delay time.Duration
	// RetryInterval is the first backoff interval; defaults to one second
	RetryInterval time.Duration
	Client        *httpclient.HTTPClient
	Logger        logger.Logger
}

// APIClient reads entries from the content-listing API
type APIClient struct {
	baseURL       string
	attempts      int
	retryInterval time.Duration
	limiter       *rate.Limiter
	client        *httpclient.HTTPClient
	logger        logger.Logger
}

// NewAPIClient creates a new content API client
func NewAPIClient(cfg APIConfig) *APIClient {
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}
	if cfg.Client == nil {
		cfg.Client = httpclient.NewClient(httpclient.PlainClient, 0)
	}

	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}

	return &APIClient{
		baseURL:       cfg.BaseURL,
		attempts:      cfg.RetryAttempts,
		retryInterval: cfg.RetryInterval,
		limiter:       rate.NewLimiter(limit, 1),
		client:        cfg.Client,
		logger:        logger.OrNop(cfg.Logger),
	}
}

// Entries returns the entries of the first page only
func (c *APIClient) Entries(ctx context.Context) ([]domain.Entry, error) {
	page, err := c.FetchPage(ctx, "")
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}

// AllEntries follows nextCursor while hasMore is set
func (c *APIClient) AllEntries(ctx context.Context) ([]domain.Entry, error) {
	var all []domain.Entry
	cursor := ""
	seen := map[string]bool{}

	for {
		page, err := c.FetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Entries...)
		c.logger.Debug("Fetched content API page",
			logger.String("cursor", cursor),
			logger.Int("entries", len(page.Entries)),
		)

		if !page.HasMore {
			break
		}
		if page.NextCursor == "" || seen[page.NextCursor] {
			c.logger.Warn("Content API reported more pages without a new cursor, stopping",
				logger.String("cursor", page.NextCursor))
			break
		}
		seen[page.NextCursor] = true
		cursor = page.NextCursor
	}

	c.logger.Info("Fetched all content API entries", logger.Int("entries", len(all)))
	return all, nil
}

// FetchPage fetches one page, retrying transport failures, 429 and 5xx responses
func (c *APIClient) FetchPage(ctx context.Context, cursor string) (domain.ListResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ListResponse{}, err
	}

	pageURL, err := c.pageURL(cursor)
	if err != nil {
		return domain.ListResponse{}, err
	}

	attempt := 0
	operation := func() (domain.ListResponse, error) {
		attempt++
		body, err := c.client.FetchBody(ctx, pageURL, map[string]string{"Accept": "application/json"})
		if err != nil {
			var statusErr *httpclient.StatusError
			if errors.As(err, &statusErr) && !retryableStatus(statusErr.StatusCode) {
				return domain.ListResponse{}, backoff.Permanent(err)
			}
			c.logger.Warn("Content API request failed",
				logger.Int("attempt", attempt),
				logger.Int("attempts", c.attempts),
				logger.Error(err),
			)
			return domain.ListResponse{}, err
		}

		var page domain.ListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return domain.ListResponse{}, backoff.Permanent(fmt.Errorf("failed to decode content API response: %w", err))
		}
		return page, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval

	page, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(c.attempts)))
	if err != nil {
		return domain.ListResponse{}, fmt.Errorf("failed to fetch content API page: %w", err)
	}
	return page, nil
}

func (c *APIClient) pageURL(cursor string) (string, error) {
	if cursor == "" {
		return c.baseURL, nil
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid content API URL: %w", err)
	}
	q := u.Query()
	q.Set("cursor", cursor)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
