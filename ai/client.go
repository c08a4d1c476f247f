package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-1.5-flash"

// Client wraps the Gemini API for the advisory services. One prompt in, one
// text response out; parsing and reshaping happen in the callers.
type Client struct {
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	log.Printf("✅ AI client initialized (model: %s)", model)
	return &Client{genai: client, model: model}, nil
}

// GenerateText sends a single prompt and returns the raw model text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("ai generation failed: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("ai returned an empty response")
	}
	return text, nil
}

// GenerateJSON sends a prompt that requests JSON output, strips any markdown
// fencing from the response, and unmarshals it into out. A response that is
// not valid JSON after fence-stripping is a hard failure; there is no retry.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return err
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse ai response: %w", err)
	}
	return nil
}

// ExtractJSON strips markdown code fences and any surrounding prose from a
// model response, returning the JSON document between the first opening brace
// or bracket and its matching final counterpart.
func ExtractJSON(text string) ([]byte, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	objStart := strings.Index(cleaned, "{")
	arrStart := strings.Index(cleaned, "[")
	start := objStart
	end := strings.LastIndex(cleaned, "}")
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		start = arrStart
		end = strings.LastIndex(cleaned, "]")
	}
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON document found in ai response")
	}
	return []byte(cleaned[start : end+1]), nil
}
