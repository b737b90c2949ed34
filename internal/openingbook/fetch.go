package openingbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultURL serves the project's opening table.
const DefaultURL = "https://github.com/sealldeveloper/lichess-detailed-moves/raw/main/data/eco.json"

type Fetcher struct {
	http *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
	maxRedirects   int
}

type FetchOption func(*Fetcher)

func WithTimeout(d time.Duration) FetchOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.defaultTimeout = d
		}
	}
}

func WithRetry(max int) FetchOption {
	return func(f *Fetcher) { f.retryMax = max }
}

func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{
		http: &fasthttp.Client{
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxConnsPerHost:     4,
			MaxResponseBodySize: 32 << 20,
		},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
		maxRedirects:   5,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url, following redirects and retrying 5xx responses and
// transport errors with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(url)
	req.Header.Set("Accept", "application/json")

	attempts := f.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := f.doFollow(ctx, req, resp)
		if err != nil {
			lastErr = fmt.Errorf("fetch opening table: %w", err)
			if attempt == attempts {
				return nil, lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("opening table status=%d body=%s", status, truncate(string(resp.Body()), 256))
			if attempt == attempts || !shouldRetryStatus(status) {
				return nil, lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}
		return append([]byte(nil), resp.Body()...), nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func (f *Fetcher) doFollow(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline := f.computeDeadline(ctx)
	for hop := 0; ; hop++ {
		if err := f.http.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
		if !fasthttp.StatusCodeIsRedirect(resp.StatusCode()) {
			return nil
		}
		if hop >= f.maxRedirects {
			return fasthttp.ErrTooManyRedirects
		}
		loc := string(resp.Header.Peek(fasthttp.HeaderLocation))
		if loc == "" {
			return fasthttp.ErrMissingLocation
		}
		next := req.URI()
		next.Update(loc)
		req.SetRequestURI(next.String())
	}
}

func (f *Fetcher) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(f.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
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
