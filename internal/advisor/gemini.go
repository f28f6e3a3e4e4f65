package advisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"google.golang.org/genai"

	"github.com/Oscargtgzz/Rendimientos/internal/config"
)

// ErrNotConfigured is returned when no API credential is set. Callers
// report it as a user-visible message, not a crash.
var ErrNotConfigured = errors.New("commentary is not configured: APP_GEMINI_API_KEY is empty")

// Client calls the Gemini API with the configured credential and model.
type Client struct {
	apiKey string
	model  string
}

func New(cfg *config.Config) *Client {
	return &Client{apiKey: cfg.GeminiAPIKey, model: cfg.GeminiModel}
}

// Commentary submits the prompt and returns the cleaned text response.
// Any failure (credential, network, quota) comes back as an error for
// the handler to surface; nothing else in the pipeline is affected.
func (c *Client) Commentary(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
	}
	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := CleanMarkdown(result.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

// CleanMarkdown strips an outer code fence the model sometimes wraps
// the whole answer in despite instructions.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// RenderHTML converts the commentary markdown to HTML for the
// dashboard panel.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
