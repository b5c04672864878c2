package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// retryPolicy is exponential backoff with jitter, capped at maxDelay.
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
}

func newRetryPolicy(c RuntimeConfig, attempts int, base, capDelay time.Duration) retryPolicy {
	p := retryPolicy{attempts: c.RetryMax, baseDelay: c.BaseDelay, maxDelay: c.MaxDelay}
	if p.attempts <= 0 {
		p.attempts = attempts
	}
	if p.baseDelay <= 0 {
		p.baseDelay = base
	}
	if p.maxDelay <= 0 {
		p.maxDelay = capDelay
	}
	return p
}

// attemptFunc performs one try. A non-nil err with retry set asks for another
// attempt; wait, when positive, overrides the computed backoff.
type attemptFunc func(ctx context.Context) (wait time.Duration, retry bool, err error)

// run calls fn until it succeeds, gives a final error or attempts run out.
// Sleeps between attempts end early when ctx is done.
func (p retryPolicy) run(ctx context.Context, fn attemptFunc) error {
	backoff := p.baseDelay
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		wait, retry, err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == p.attempts {
			break
		}
		if wait <= 0 {
			wait = withJitter(backoff)
			if p.maxDelay > 0 && wait > p.maxDelay {
				wait = p.maxDelay
			}
			backoff *= 2
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return lastErr
}

// withJitter returns d scaled by a random factor in [0.8, 1.2).
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	out := time.Duration(float64(d) * (0.8 + rand.Float64()*0.4))
	if out <= 0 {
		return d
	}
	return out
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if s, err := strconv.Atoi(v); err == nil && s > 0 {
		return time.Duration(s) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func requestID(h http.Header) string {
	for _, k := range []string{"X-Request-Id", "OpenAI-Request-ID", "Openrouter-Request-ID", "X-Amzn-Requestid"} {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// postJSON sends body as JSON to url.
func postJSON(ctx context.Context, hc *http.Client, url string, body any, headers func(*http.Request)) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if headers != nil {
		headers(req)
	}
	return hc.Do(req)
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// retryableStatus reports 429 and 5xx responses.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}
