// internal/adapters/drive/client.go
package drive

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"turbo_reviews/internal/adapters/observability"
)

const DefaultBaseURL = "https://www.googleapis.com/drive/v3"

const maxAttempts = 4

var (
	ErrNotFound     = errors.New("drive: not found")
	ErrUnauthorized = errors.New("drive: unauthorized")
	ErrForbidden    = errors.New("drive: forbidden")
)

// Client downloads one Drive file as a stream. Authentication lives in the
// injected *http.Client (see NewHTTPClient).
type Client struct {
	base   string
	hc     *http.Client
	fileID string
	rl     *rate.Limiter
}

func New(base, fileID string, hc *http.Client, rps int) (*Client, error) {
	if fileID == "" {
		return nil, fmt.Errorf("drive file id is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     hc,
		fileID: fileID,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) ID() string { return c.fileID }

// Open starts the download and returns the body once the response headers
// arrive. Only opening is retried (429, 5xx, network errors); a failure
// while the caller reads the body is final.
func (c *Client) Open(ctx context.Context) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/files/%s?alt=media&supportsAllDrives=true", c.base, url.PathEscape(c.fileID))

	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "turbo-reviews/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			observability.ObserveExternal("drive", "files.get", 0, time.Since(start))
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal("drive", "files.get", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			return resp.Body, nil

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusForbidden:
			// Drive reports quota exhaustion as 403 rateLimitExceeded.
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if !strings.Contains(string(b), "ateLimitExceeded") {
				return nil, ErrForbidden
			}
			lastErr = fmt.Errorf("remote %d: rate limited", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, lastErr
	}

	return nil, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
