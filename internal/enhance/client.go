// Package enhance adds AI-generated summaries, key points, and tags to
// stored articles through an OpenAI-compatible chat completions API.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
)

const enhancePrompt = `You are a technical news editor. Given an article title and text, produce a JSON object with exactly these fields:

{
  "summary": "<2-3 sentence summary of the article>",
  "key_points": ["<point 1>", "<point 2>", "<point 3>"],
  "tags": ["<topic tag>", "<topic tag>"]
}

Rules:
- summary is plain text, no markdown
- 2 to 4 key_points, each one sentence
- 2 to 5 tags, short lowercase topics like "go", "databases", "security"
- respond with ONLY the JSON object

Title: %s

Text:
%s`

// Result is the structured enhancement for one article.
type Result struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Tags      []string `json:"tags"`
}

type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewClient builds a client from the enhance config. The API key comes from
// the environment variable the config names.
func NewClient(cfg config.EnhanceConfig) (*Client, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not set (export %s)", cfg.APIKeyEnv)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Enhance asks the model for a summary of one article.
func (c *Client) Enhance(ctx context.Context, title, text string) (Result, error) {
	prompt := fmt.Sprintf(enhancePrompt, title, truncate(text, 6000))
	content, err := c.call(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	return ParseResult(content)
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat API %d: %s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}
	return cr.Choices[0].Message.Content, nil
}

// truncate caps the prompt text at max runes; cutting bytes could hand the
// model a broken trailing rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
