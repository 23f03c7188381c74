package factory

import (
	"context"
	"fmt"
	"strings"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/gemini"
	"ai-assistant-be/pkg/llm/ollama"
)

type Settings struct {
	Provider  string // "ollama" | "gemini" | "" (disabled)
	Model     string
	BaseURL   string // Ollama only
	GeminiKey string
}

// NewLLMProvider returns (nil, nil) when no provider is configured.
func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", "none":
		return nil, nil
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case "gemini":
		provider, err := gemini.NewGeminiProvider(ctx, s.GeminiKey, s.Model)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
