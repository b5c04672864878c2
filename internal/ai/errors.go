package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Error kinds an APIError can be matched against with errors.Is.
var (
	ErrAuth          = errors.New("authentication failed")
	ErrRateLimited   = errors.New("rate limited")
	ErrModelNotFound = errors.New("model not found")
	ErrBadRequest    = errors.New("bad request")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrServer        = errors.New("provider error")
)

// APIError is a non-2xx response from a provider.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
	// RetryAfter is set for rate limits that named a wait.
	RetryAfter time.Duration
	kind       error
}

func (e *APIError) Error() string {
	parts := []string{fmt.Sprintf("status=%d", e.StatusCode)}
	if e.Code != "" {
		parts = append(parts, "code="+e.Code)
	}
	if e.RequestID != "" {
		parts = append(parts, "request_id="+e.RequestID)
	}
	if e.Message != "" {
		parts = append(parts, "message="+e.Message)
	}
	msg := "api error: " + strings.Join(parts, " ")
	if e.kind == ErrRateLimited && e.RetryAfter > 0 {
		return fmt.Sprintf("%v: wait about %ds before retrying: %s", e.kind, int(e.RetryAfter.Seconds()), msg)
	}
	if e.kind != nil {
		return e.kind.Error() + ": " + msg
	}
	return msg
}

// Unwrap exposes the error kind.
func (e *APIError) Unwrap() error { return e.kind }

// readAPIError decodes an error body of either shape providers use:
// {"error":{"message","code"}}, {"error":"..."} or {"message","code"}.
func readAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var raw struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Code    any             `json:"code"`
	}
	_ = json.Unmarshal(body, &raw)
	e := &APIError{
		StatusCode: resp.StatusCode,
		Message:    raw.Message,
		Code:       codeString(raw.Code),
		RequestID:  requestID(resp.Header),
		RetryAfter: retryAfter(resp.Header),
	}
	var nested struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	}
	var flat string
	switch {
	case json.Unmarshal(raw.Error, &nested) == nil && (nested.Message != "" || nested.Code != nil):
		e.Message, e.Code = nested.Message, codeString(nested.Code)
	case json.Unmarshal(raw.Error, &flat) == nil && flat != "":
		e.Message = flat
	}
	e.kind = classify(e)
	return e
}

func codeString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return fmt.Sprintf("%.0f", c)
	}
	return ""
}

func classify(e *APIError) error {
	msg := strings.ToLower(e.Message)
	switch sc := e.StatusCode; {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return ErrAuth
	case sc == http.StatusTooManyRequests:
		return ErrRateLimited
	case sc == http.StatusNotFound && (e.Code == "model_not_found" || strings.Contains(msg, "model")):
		return ErrModelNotFound
	case sc == http.StatusBadRequest:
		return ErrBadRequest
	case e.Code == "quota_exceeded" || strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return ErrQuotaExceeded
	case sc >= 500:
		return ErrServer
	}
	return nil
}

// UnreachableError means the runtime could not be contacted at all, such as
// a local runtime that is not running.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
