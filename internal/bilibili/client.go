// Package bilibili is the client for the Bilibili live API.
package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.live.bilibili.com"

	// DefaultCoverURL is the cover image used when a room has none.
	DefaultCoverURL = "https://i1.hdslb.com/bfs/archive/b77d81bc138419fb65d9b0a35c400bfd2b55ac55.jpg@260w_160h.webp"

	// The API rejects requests without a browser-like user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"

	maxBodySize  = 1 * 1024 * 1024
	maxAssetSize = 10 * 1024 * 1024
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is an application-level error returned by the platform.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error code %d: %s", e.Code, e.Message)
}

// RoomInfo is the subset of the room endpoint payload the bot uses.
type RoomInfo struct {
	UID        int64  `json:"uid"`
	RoomID     int64  `json:"room_id"`
	Title      string `json:"title"`
	UserCover  string `json:"user_cover"`
	LiveStatus int    `json:"live_status"`
	LiveTime   string `json:"live_time"`
}

// MasterInfo holds broadcaster metadata.
type MasterInfo struct {
	Name string
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client fetches room and broadcaster metadata from the live API.
type Client struct {
	http       HTTPClient
	baseURL    string
	limiter    *rate.Limiter
	backoff    time.Duration
	maxRetries uint64
}

// New creates a Client with the given HTTP client.
func New(client HTTPClient) *Client {
	return &Client{
		http:       client,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		backoff:    250 * time.Millisecond,
		maxRetries: 2,
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// SetRetryPolicy overrides the retry backoff base and attempt count.
func (c *Client) SetRetryPolicy(backoff time.Duration, maxRetries uint64) {
	c.backoff = backoff
	c.maxRetries = maxRetries
}

// SetRateLimit overrides the built-in request rate limit.
func (c *Client) SetRateLimit(rps float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// GetRoomInfo fetches live status, title, cover and broadcaster ID for a room.
func (c *Client) GetRoomInfo(ctx context.Context, roomID int64) (*RoomInfo, error) {
	url := fmt.Sprintf("%s/room/v1/Room/get_info?room_id=%d", c.baseURL, roomID)

	var info RoomInfo
	if err := c.getJSON(ctx, url, &info); err != nil {
		return nil, fmt.Errorf("get room info %d: %w", roomID, err)
	}
	return &info, nil
}

// GetMasterInfo fetches the broadcaster's display name.
func (c *Client) GetMasterInfo(ctx context.Context, uid int64) (*MasterInfo, error) {
	url := fmt.Sprintf("%s/live_user/v1/Master/info?uid=%d", c.baseURL, uid)

	var data struct {
		Info struct {
			Uname string `json:"uname"`
		} `json:"info"`
	}
	if err := c.getJSON(ctx, url, &data); err != nil {
		return nil, fmt.Errorf("get master info %d: %w", uid, err)
	}
	return &MasterInfo{Name: data.Info.Uname}, nil
}

// DownloadAsset fetches raw bytes from the given URL (cover images).
func (c *Client) DownloadAsset(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// getJSON performs a rate-limited GET with bounded retries on transport
// errors and 5xx responses, then decodes the API envelope into out.
// Application-level errors (non-zero code) are not retried.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	b := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("http get: %w", err))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("read body: %w", err))
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}
		if env.Code != 0 {
			return &APIError{Code: env.Code, Message: env.Message}
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		return nil
	})
}
