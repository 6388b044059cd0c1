package holidays

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/salesbook/internal/config"
)

// Client fetches the public holiday calendar.
type Client interface {
	Holidays(ctx context.Context) (map[string]string, error)
}

// APIClient is a resty-backed implementation of Client. The endpoint returns a
// JSON object mapping "YYYY-MM-DD" to the holiday name.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a holiday API client using the provided configuration values.
func NewClient(cfg config.HolidaysConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.URL,
	}
}

// Holidays returns the holiday set. A non-success status yields an empty set.
func (c *APIClient) Holidays(ctx context.Context) (map[string]string, error) {
	if c.url == "" {
		return map[string]string{}, nil
	}

	result := map[string]string{}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}

	if !resp.IsSuccess() {
		return map[string]string{}, nil
	}

	return result, nil
}
