package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/logging"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/KaramelBytes/vibewriter/internal/workspace"
	"github.com/phuslu/log"
)

const (
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultTemperature  = 0.7
)

// ErrNoProvider is returned when neither the local bridge nor OpenRouter is
// configured.
var ErrNoProvider = errors.New("no AI provider configured: enable the local bridge or add an OpenRouter API key in settings")

// Params is a single generation request. A zero Temperature means
// DefaultTemperature.
type Params struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
}

// Result is the generated text and where it came from.
type Result struct {
	Text         string `json:"text"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	PromptTokens int    `json:"promptTokens"`
}

// Options configures a Generator. Settings stored in the workspace override
// Model and LocalModel when set.
type Options struct {
	Model      string
	LocalModel string
	MaxTokens  int
	Runtime    RuntimeConfig
}

// Generator routes prompts to the provider selected by workspace settings.
type Generator struct {
	opts   Options
	logger *log.Logger
}

func NewGenerator(opts Options, logger *log.Logger) *Generator {
	return &Generator{opts: opts, logger: logging.OrNop(logger)}
}

// Provider picks the provider for s: the local bridge when enabled, else
// OpenRouter when a key is present.
func (g *Generator) Provider(s workspace.Settings) (string, error) {
	switch {
	case s.OpenAICLIEnabled:
		return ProviderLocal, nil
	case strings.TrimSpace(s.OpenRouterAPIKey) != "":
		return ProviderOpenRouter, nil
	default:
		return "", ErrNoProvider
	}
}

// Model returns the model used for provider under s.
func (g *Generator) Model(provider string, s workspace.Settings) string {
	if provider == ProviderLocal {
		return firstNonEmpty(s.LocalModel, g.opts.LocalModel, "llama3.1:8b-instruct")
	}
	return firstNonEmpty(s.Model, g.opts.Model, "google/gemini-2.5-pro")
}

// Bridge returns the local bridge configured for s.
func (g *Generator) Bridge(s workspace.Settings) *Bridge {
	return NewBridge(NewOllamaClient(g.opts.Runtime), g.Model(ProviderLocal, s))
}

func (g *Generator) request(provider string, s workspace.Settings, p Params) (GenerateRequest, Runtime, Result) {
	model := g.Model(provider, s)
	system := firstNonEmpty(p.SystemPrompt, DefaultSystemPrompt)
	temp := p.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	cfg := g.opts.Runtime
	cfg.APIKey = s.OpenRouterAPIKey
	rt, _ := GetRuntime(provider, cfg)

	req := GenerateRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: p.Prompt},
		},
		MaxTokens:   g.opts.MaxTokens,
		Temperature: temp,
	}
	res := Result{Provider: provider, Model: model, PromptTokens: utils.CountTokens(system + "\n" + p.Prompt)}
	if mi, ok := LookupModel(model); ok && mi.ContextTokens > 0 && res.PromptTokens > mi.ContextTokens {
		g.logger.Warn().Str("model", model).Int("prompt_tokens", res.PromptTokens).Int("context_tokens", mi.ContextTokens).Msg("prompt may exceed the model context window")
	}
	return req, rt, res
}

// Generate runs p against the selected provider. It never touches the
// workspace.
func (g *Generator) Generate(ctx context.Context, s workspace.Settings, p Params) (Result, error) {
	provider, err := g.Provider(s)
	if err != nil {
		return Result{}, err
	}
	req, rt, res := g.request(provider, s, p)
	g.logger.Debug().Str("provider", provider).Str("model", res.Model).Int("prompt_tokens", res.PromptTokens).Msg("generating")
	resp, err := rt.Generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	res.Text, err = firstContent(resp)
	return res, err
}

// Stream is Generate with partial output delivered to onDelta.
func (g *Generator) Stream(ctx context.Context, s workspace.Settings, p Params, onDelta func(string)) (Result, error) {
	provider, err := g.Provider(s)
	if err != nil {
		return Result{}, err
	}
	req, rt, res := g.request(provider, s, p)
	srt, ok := rt.(StreamRuntime)
	if !ok {
		return g.Generate(ctx, s, p)
	}
	var sb strings.Builder
	err = srt.GenerateStream(ctx, req, func(d string) {
		sb.WriteString(d)
		onDelta(d)
	})
	if err != nil {
		return Result{}, err
	}
	res.Text = sb.String()
	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
