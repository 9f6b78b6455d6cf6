// Package ai asks an OpenAI-compatible chat-completion endpoint to summarize
// and tag notes.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const systemPrompt = "You are a helpful assistant for summarizing and tagging user notes."

var ErrNoAPIKey = errors.New("ai: API key is not set")

// Client summarizes notes and suggests topic tags.
type Client interface {
	Summarize(ctx context.Context, title, content string) (string, error)
	SuggestTags(ctx context.Context, title, content string) ([]string, error)
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai: API error %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Config configures a ChatClient.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// ConfigFromEnv builds a Config reading the API key from keyEnv.
func ConfigFromEnv(baseURL, model, keyEnv string, timeout time.Duration) Config {
	return Config{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  os.Getenv(keyEnv),
		Timeout: timeout,
	}
}

// ChatClient implements Client over HTTP.
type ChatClient struct {
	cfg  Config
	http *http.Client
}

func NewChatClient(cfg Config) *ChatClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize returns a one or two sentence summary in the note's language.
func (c *ChatClient) Summarize(ctx context.Context, title, content string) (string, error) {
	prompt := "You are a note-taking assistant.\n" +
		"Summarize the following note in 1-2 sentences in the SAME language as the note.\n\n" +
		noteBody(title, content)
	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// SuggestTags returns short topic tags for the note.
func (c *ChatClient) SuggestTags(ctx context.Context, title, content string) ([]string, error) {
	prompt := "Read this note and output 3-5 short topic tags, 1-3 words each.\n" +
		"Return ONLY the tags separated by commas, no explanations.\n\n" +
		noteBody(title, content)
	reply, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return SplitTags(reply), nil
}

// SplitTags splits a comma separated reply, accepting ASCII and full-width
// commas.
func SplitTags(reply string) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '，' || r == '\n'
	})
	tags := make([]string, 0, len(fields))
	for _, field := range fields {
		if tag := strings.TrimSpace(field); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func noteBody(title, content string) string {
	if strings.TrimSpace(title) == "" {
		title = "(no title)"
	}
	if strings.TrimSpace(content) == "" {
		content = "(empty)"
	}
	return "Title: " + title + "\nContent:\n" + content
}

func (c *ChatClient) complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}
	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
