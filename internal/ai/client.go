package ai

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenRouterURL is the OpenRouter API root.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Choice struct {
	Message Message `json:"message"`
}

type GenerateResponse struct {
	ID        string   `json:"id"`
	Choices   []Choice `json:"choices"`
	Usage     Usage    `json:"usage"`
	RequestID string   `json:"-"`
}

func validateRequest(req GenerateRequest) error {
	if req.Model == "" {
		return errors.New("model cannot be empty")
	}
	if len(req.Messages) == 0 {
		return errors.New("messages cannot be empty")
	}
	return nil
}

// Client talks to the OpenRouter chat completions API.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
	retry   retryPolicy
}

// NewOpenRouterClient builds a client from c. Zero values fall back to a 60s
// timeout and three attempts backing off from 500ms up to 4s.
func NewOpenRouterClient(c RuntimeConfig) *Client {
	timeout := c.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultOpenRouterURL
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiKey:  c.APIKey,
		baseURL: base,
		retry:   newRetryPolicy(c, 3, 500*time.Millisecond, 4*time.Second),
	}
}

func (c *Client) setHeaders(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+c.apiKey)
	r.Header.Set("HTTP-Referer", "https://github.com/KaramelBytes/vibewriter")
	r.Header.Set("X-Title", "Vibe Writer")
}

func (c *Client) check(req GenerateRequest) error {
	if c.apiKey == "" {
		return errors.New("OpenRouter API key is missing")
	}
	return validateRequest(req)
}

// Generate sends a chat completion, retrying network timeouts, 429s and 5xx.
// A Retry-After header replaces the computed backoff.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	req.Stream = false
	var out GenerateResponse
	err := c.retry.run(ctx, func(ctx context.Context) (time.Duration, bool, error) {
		resp, err := postJSON(ctx, c.http, c.baseURL+"/chat/completions", req, c.setHeaders)
		if err != nil {
			return 0, isRetryableNetErr(err), fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()
		if !isSuccess(resp) {
			apiErr := readAPIError(resp)
			return apiErr.RetryAfter, retryableStatus(resp.StatusCode), apiErr
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return 0, false, fmt.Errorf("decode response: %w", err)
		}
		out.RequestID = requestID(resp.Header)
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateStream reads OpenRouter's server-sent events and hands each content
// delta to onDelta. Streams are not retried.
func (c *Client) GenerateStream(ctx context.Context, req GenerateRequest, onDelta func(string)) error {
	if err := c.check(req); err != nil {
		return err
	}
	req.Stream = true
	resp, err := postJSON(ctx, c.http, c.baseURL+"/chat/completions", req, c.setHeaders)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp) {
		return readAPIError(resp)
	}
	return readSSE(ctx, resp.Body, func(data string) {
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if json.Unmarshal([]byte(data), &chunk) == nil && len(chunk.Choices) > 0 {
			if d := chunk.Choices[0].Delta.Content; d != "" {
				onDelta(d)
			}
		}
	})
}

// readSSE calls fn with the payload of every "data:" line until [DONE] or EOF.
func readSSE(ctx context.Context, r io.Reader, fn func(data string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, ok := strings.CutPrefix(sc.Text(), "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			return nil
		}
		fn(data)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("stream read: %w", err)
	}
	return nil
}
