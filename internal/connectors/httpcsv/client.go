package httpcsv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"stonecatalog/internal/config"
	"stonecatalog/internal/util"
)

// Connector downloads a published CSV export of the library sheet.
type Connector struct {
	url        string
	retries    int
	httpClient *http.Client
}

func NewConnector(cfg config.Config) (*Connector, error) {
	if err := cfg.Require("CATALOG_SOURCE_URL", cfg.SourceURL); err != nil {
		return nil, err
	}
	retries := cfg.HTTPRetries
	if retries <= 0 {
		retries = 1
	}
	return &Connector{
		url:        cfg.SourceURL,
		retries:    retries,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond},
	}, nil
}

func (c *Connector) Name() string { return "url:" + c.url }

func (c *Connector) FetchRows(ctx context.Context) ([][]string, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(body), "\ufeff")
	return util.ParseCSV(text), nil
}

func (c *Connector) fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < c.retries {
				lastErr = fmt.Errorf("csv export status %d", resp.StatusCode)
				if err := c.wait(ctx, attempt); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("csv export error: status=%d body=%s", resp.StatusCode, truncate(string(body), 200))
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("csv export request failed")
	}
	return nil, lastErr
}

// wait sleeps before the next attempt. After the last attempt it returns at
// once.
func (c *Connector) wait(ctx context.Context, attempt int) error {
	if attempt >= c.retries {
		return nil
	}
	return sleep(ctx, backoff(attempt))
}

func backoff(attempt int) time.Duration {
	return time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
