// Package genai wraps the Gemini SDK behind the small surface the assistant
// uses.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	gemini "google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

var ErrEmptyAnswer = errors.New("genai: empty answer")

// TextGenerator is what the assistant service needs from the model.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	GenerateJSON(ctx context.Context, system, prompt string, out any) error
}

type Client struct {
	models *gemini.Models
	model  string
}

// NewClient builds a Gemini API client. baseURL is only set to point the
// SDK at a proxy or a test server.
func NewClient(ctx context.Context, baseURL, model, apiKey string) (*Client, error) {
	cfg := &gemini.ClientConfig{
		APIKey:  apiKey,
		Backend: gemini.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := gemini.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = DefaultModel
	}
	return &Client{models: client.Models, model: model}, nil
}

func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, system, prompt, "")
}

// GenerateJSON asks for an application/json answer and decodes it into out.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string, out any) error {
	text, err := c.generate(ctx, system, prompt, "application/json")
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(stripFences(text)), out)
}

func (c *Client) generate(ctx context.Context, system, prompt, mimeType string) (string, error) {
	cfg := &gemini.GenerateContentConfig{ResponseMIMEType: mimeType}
	if system != "" {
		cfg.SystemInstruction = gemini.NewContentFromText(system, gemini.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, gemini.Text(prompt), cfg)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}

// stripFences removes the ```json fences some models wrap JSON answers in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
