package ai

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// BridgeStatus reports whether the local runtime is usable.
type BridgeStatus struct {
	Available      bool     `json:"available"`
	Host           string   `json:"host"`
	Model          string   `json:"model"`
	ModelInstalled bool     `json:"modelInstalled"`
	Models         []string `json:"models,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Bridge is the local generation path: an Ollama-compatible runtime on this
// machine serving a single configured model.
type Bridge struct {
	client *OllamaClient
	model  string
}

func NewBridge(client *OllamaClient, model string) *Bridge {
	return &Bridge{client: client, model: model}
}

// CheckStatus probes the runtime. It never returns an error; failures are
// reported in the status.
func (b *Bridge) CheckStatus(ctx context.Context) BridgeStatus {
	st := BridgeStatus{Host: b.client.Host(), Model: b.model}
	names, err := b.client.Tags(ctx)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Available = true
	st.Models = names
	st.ModelInstalled = slices.ContainsFunc(names, func(n string) bool {
		return n == b.model || strings.TrimSuffix(n, ":latest") == b.model
	})
	return st
}

// Chat sends messages to the local model. systemPrompt, when set, is sent
// first.
func (b *Bridge) Chat(ctx context.Context, messages []Message, systemPrompt string, temperature float64) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("messages cannot be empty")
	}
	req := GenerateRequest{Model: b.model, Temperature: temperature}
	if systemPrompt != "" {
		req.Messages = append(req.Messages, Message{Role: "system", Content: systemPrompt})
	}
	req.Messages = append(req.Messages, messages...)
	resp, err := b.client.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return firstContent(resp)
}

func firstContent(resp *GenerateResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty response from provider")
	}
	return resp.Choices[0].Message.Content, nil
}
