package ai

import (
	"slices"
	"strings"
)

// ModelInfo describes a model the generator may target. Prices are USD per
// 1K tokens and only indicative; local models are free.
type ModelInfo struct {
	Name          string  `json:"name"`
	Provider      string  `json:"provider"`
	ContextTokens int     `json:"contextTokens"`
	InputPerK     float64 `json:"inputPerK,omitempty"`
	OutputPerK    float64 `json:"outputPerK,omitempty"`
}

var catalog = []ModelInfo{
	{Name: "google/gemini-2.5-pro", Provider: ProviderOpenRouter, ContextTokens: 1000000, InputPerK: 0.00125, OutputPerK: 0.01},
	{Name: "google/gemini-2.5-flash", Provider: ProviderOpenRouter, ContextTokens: 1000000, InputPerK: 0.0003, OutputPerK: 0.0025},
	{Name: "openai/gpt-4o", Provider: ProviderOpenRouter, ContextTokens: 128000, InputPerK: 0.005, OutputPerK: 0.015},
	{Name: "openai/gpt-4o-mini", Provider: ProviderOpenRouter, ContextTokens: 128000, InputPerK: 0.0006, OutputPerK: 0.0024},
	{Name: "anthropic/claude-3.5-sonnet", Provider: ProviderOpenRouter, ContextTokens: 200000, InputPerK: 0.003, OutputPerK: 0.015},
	{Name: "llama3.1:8b-instruct", Provider: ProviderLocal, ContextTokens: 8192},
	{Name: "mistral-nemo:latest", Provider: ProviderLocal, ContextTokens: 8192},
	{Name: "phi3:mini-4k-instruct", Provider: ProviderLocal, ContextTokens: 4096},
}

// LookupModel finds a catalog entry by exact name.
func LookupModel(name string) (ModelInfo, bool) {
	i := slices.IndexFunc(catalog, func(m ModelInfo) bool { return m.Name == name })
	if i < 0 {
		return ModelInfo{}, false
	}
	return catalog[i], true
}

// EstimateCostUSD prices a call against the catalog. ok is false for unknown
// models.
func EstimateCostUSD(model string, promptTokens, completionTokens int) (float64, bool) {
	mi, ok := LookupModel(model)
	if !ok {
		return 0, false
	}
	return float64(promptTokens)/1000*mi.InputPerK + float64(completionTokens)/1000*mi.OutputPerK, true
}

// Catalog returns the known models for provider, or all of them when provider
// is empty, sorted by name.
func Catalog(provider string) []ModelInfo {
	provider = strings.ToLower(strings.TrimSpace(provider))
	out := make([]ModelInfo, 0, len(catalog))
	for _, m := range catalog {
		if provider == "" || m.Provider == provider {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b ModelInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}
