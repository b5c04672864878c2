package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaHost is where a local runtime listens by default.
const DefaultOllamaHost = "http://127.0.0.1:11434"

// OllamaClient drives a local Ollama-compatible runtime through /api/chat.
type OllamaClient struct {
	http  *http.Client
	host  string
	retry retryPolicy
}

// NewOllamaClient builds a client from c. Zero values fall back to the
// default host, a 60s timeout and two attempts backing off from 200ms to 1s.
func NewOllamaClient(c RuntimeConfig) *OllamaClient {
	timeout := c.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	host := strings.TrimRight(c.Host, "/")
	if host == "" {
		host = DefaultOllamaHost
	}
	return &OllamaClient{
		http:  &http.Client{Timeout: timeout},
		host:  host,
		retry: newRetryPolicy(c, 2, 200*time.Millisecond, time.Second),
	}
}

// Host returns the runtime base URL.
func (c *OllamaClient) Host() string { return c.host }

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

func toOllama(req GenerateRequest, stream bool) ollamaChatRequest {
	out := ollamaChatRequest{Model: req.Model, Messages: req.Messages, Stream: stream}
	if req.Temperature > 0 || req.MaxTokens > 0 {
		out.Options = map[string]any{}
	}
	if req.Temperature > 0 {
		out.Options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		out.Options["num_predict"] = req.MaxTokens
	}
	return out
}

// Generate sends a non-streaming chat request. Unreachable hosts are not
// retried beyond transient network errors.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var out GenerateResponse
	err := c.retry.run(ctx, func(ctx context.Context) (time.Duration, bool, error) {
		resp, err := postJSON(ctx, c.http, c.host+"/api/chat", toOllama(req, false), nil)
		if err != nil {
			return 0, isRetryableNetErr(err), &UnreachableError{Host: c.host, Err: err}
		}
		defer resp.Body.Close()
		if !isSuccess(resp) {
			return 0, resp.StatusCode >= 500, readAPIError(resp)
		}
		var oresp ollamaChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&oresp); err != nil {
			return 0, false, fmt.Errorf("decode response: %w", err)
		}
		out.Choices = []Choice{{Message: Message{Role: "assistant", Content: oresp.Message.Content}}}
		out.RequestID = fmt.Sprintf("local_%d", time.Now().UnixNano())
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateStream reads the runtime's newline-delimited JSON stream.
func (c *OllamaClient) GenerateStream(ctx context.Context, req GenerateRequest, onDelta func(string)) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	resp, err := postJSON(ctx, c.http, c.host+"/api/chat", toOllama(req, true), nil)
	if err != nil {
		return &UnreachableError{Host: c.host, Err: err}
	}
	defer resp.Body.Close()
	if !isSuccess(resp) {
		return readAPIError(resp)
	}
	dec := json.NewDecoder(resp.Body)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var chunk ollamaChatResponse
		if err := dec.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode stream: %w", err)
		}
		if chunk.Message.Content != "" {
			onDelta(chunk.Message.Content)
		}
		if chunk.Done {
			return nil
		}
	}
}

// Tags lists the models installed in the runtime.
func (c *OllamaClient) Tags(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UnreachableError{Host: c.host, Err: err}
	}
	defer resp.Body.Close()
	if !isSuccess(resp) {
		return nil, readAPIError(resp)
	}
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
