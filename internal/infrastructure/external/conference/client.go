package conference

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
)

// Transient download failures get a short bounded retry; provider URLs
// occasionally 500 right after the recording finishes.
const maxDownloadRetries = 2

// Client downloads recording assets from the conferencing provider.
// Downloads authenticate with the short-lived token the provider attaches
// to each webhook event, not with tenant API credentials.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a media download client with the given per-call timeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DownloadFile fetches a recording asset and returns its content. The
// download token may be empty for publicly downloadable assets. Network
// errors and 5xx/429 responses retry with exponential backoff; other 4xx
// responses fail immediately since an expired token will not recover.
func (c *Client) DownloadFile(ctx context.Context, url, downloadToken string) ([]byte, error) {
	var content []byte

	operation := func() error {
		data, err := c.fetch(ctx, url, downloadToken)
		if err != nil {
			return err
		}
		content = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, maxDownloadRetries), ctx)); err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Client) fetch(ctx context.Context, url, downloadToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if downloadToken != "" {
		req.Header.Set("Authorization", "Bearer "+downloadToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		statusErr := fmt.Errorf("media download returned status %d", resp.StatusCode)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(statusErr)
		}
		return nil, statusErr
	}

	return io.ReadAll(resp.Body)
}

// CheckReachable verifies a media URL answers before committing to a full
// transcription call. Uses HEAD so nothing is transferred; a HEAD-rejecting
// server (405) still counts as reachable.
func (c *Client) CheckReachable(ctx context.Context, url, downloadToken string) error {
	req, err := http.NewRequestWithContext(ctx, "HEAD", url, nil)
	if err != nil {
		return err
	}
	if downloadToken != "" {
		req.Header.Set("Authorization", "Bearer "+downloadToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrMediaNotReachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusMethodNotAllowed {
		return fmt.Errorf("%w: status %d", entities.ErrMediaNotReachable, resp.StatusCode)
	}
	return nil
}
