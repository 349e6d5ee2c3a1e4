package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator is the provider-agnostic interface for the narrative text call.
// To add a new provider, implement this interface and wire it in main.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ── OpenAI-compatible adapter ─────────────────────────────────────────────────
// Works against api.openai.com and any chat-completions-compatible endpoint.

type openAIGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIGenerator creates a Generator backed by a chat-completions API.
func NewOpenAIGenerator(apiKey, baseURL, model string) Generator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAIGenerator{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("generator api key is not configured")
	}

	payload := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": 300,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generator returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// ── Disabled adapter ──────────────────────────────────────────────────────────

type disabledGenerator struct{}

// NewDisabledGenerator is the composition-time choice when no generator is
// configured; every call fails and the recap falls back to the built-in
// narrative.
func NewDisabledGenerator() Generator { return disabledGenerator{} }

func (disabledGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("narrative generator is not configured")
}
