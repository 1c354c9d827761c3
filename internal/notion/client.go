package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

var ErrRequestFailed = errors.New("notion request failed")

const (
	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	defaultBaseURL = "https://api.notion.com/v1"
	defaultTimeout = 30 * time.Second
	pageSize       = 100
)

// RetryPolicy bounds page fetch retries: Attempts total tries with a fixed
// Delay between them.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: time.Second}

// Config represents configuration for the Notion API client.
type Config struct {
	// APIKey is the Notion integration token.
	APIKey string
	// Version is the Notion-Version header value. Defaults to DefaultVersion.
	Version string
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
	// Retry is applied to each query page fetch. Metadata fetches are not
	// retried.
	Retry RetryPolicy
}

type Client struct {
	config Config
	client *http.Client
}

func NewClient(config Config) *Client {
	if config.Version == "" {
		config.Version = DefaultVersion
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Retry.Attempts < 1 {
		config.Retry = DefaultRetryPolicy
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Database fetches the database metadata. Not retried: a metadata failure
// fails the fetch immediately.
func (c *Client) Database(ctx context.Context, databaseID string) (Database, error) {
	log.Infof("fetching database %s", databaseID)

	var database Database
	if err := c.do(ctx, http.MethodGet, "/databases/"+databaseID, nil, &database); err != nil {
		return Database{}, err
	}
	return database, nil
}

type databaseQuery struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size"`
}

type queryResponse struct {
	Results    []Record `json:"results"`
	HasMore    bool     `json:"has_more"`
	NextCursor *string  `json:"next_cursor"`
}

// QueryAll fetches every record of the database, following the cursor until
// has_more is unset. A page that still fails after the retry policy is
// exhausted fails the whole query; there is no resumption from an earlier
// cursor and no partial result.
func (c *Client) QueryAll(ctx context.Context, databaseID string) ([]Record, error) {
	records := make([]Record, 0)
	query := databaseQuery{PageSize: pageSize}

	page := 1
	for {
		response, err := c.queryPage(ctx, databaseID, query, page)
		if err != nil {
			return nil, err
		}

		records = append(records, response.Results...)

		if !response.HasMore {
			break
		}
		if response.NextCursor == nil {
			return nil, fmt.Errorf("%w: has_more set without next_cursor", ErrRequestFailed)
		}
		query.StartCursor = *response.NextCursor
		page++
	}

	return records, nil
}

func (c *Client) queryPage(ctx context.Context, databaseID string, query databaseQuery, page int) (queryResponse, error) {
	var response queryResponse
	operation := func() error {
		log.Infof("fetching database %s, page %d", databaseID, page)
		response = queryResponse{}
		return c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", query, &response)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.config.Retry.Delay),
			uint64(c.config.Retry.Attempts-1),
		),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return queryResponse{}, err
	}
	return response, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Notion-Version", c.config.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s %s: %s", ErrRequestFailed, method, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %w", ErrRequestFailed, method, path, err)
	}
	return nil
}
