// Package ollama implements the understanding port against a local
// Ollama instance, for running the site without a hosted LLM.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1:8b"
	defaultTimeout = 30 * time.Second

	extractSystem = "You pull musical descriptors out of chat messages about songs. " +
		"Reply with ONLY a JSON array of lowercase keywords (moods, genres, textures, decades, energy words). " +
		"Reply [] if the message describes nothing musical."

	entitySystem = "You describe musical artists as trait words. " +
		"Reply with ONLY a JSON array of lowercase descriptors for the artist's typical sound. " +
		"Reply [] if you do not know the artist."

	personaSystem = "You are the resident record collector of a one-person music site: " +
		"opinionated, warm, a little wry, never more than three sentences."
)

// Client implements ports.Understanding over Ollama's /api/chat.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// NewClient builds a client; zero-valued args fall back to local defaults.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) ExtractQueryTerms(ctx context.Context, utterance string) ([]string, error) {
	return c.wordList(ctx, extractSystem, utterance)
}

func (c *Client) ExtractEntityTraits(ctx context.Context, name string) ([]string, error) {
	return c.wordList(ctx, entitySystem, name)
}

func (c *Client) GeneratePersonaReply(ctx context.Context, prompt, background string) (string, error) {
	user := prompt
	if background != "" {
		user = prompt + "\n\nContext: " + background
	}
	content, err := c.chat(ctx, personaSystem, user, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) wordList(ctx context.Context, system, user string) ([]string, error) {
	content, err := c.chat(ctx, system, user, "json")
	if err != nil {
		return nil, err
	}
	words, err := parseWordList(content)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return words, nil
}

func (c *Client) chat(ctx context.Context, system, user, format string) (string, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: format,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama: %s", parsed.Error)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", fmt.Errorf("ollama: empty response")
	}
	return parsed.Message.Content, nil
}

// parseWordList accepts either a bare JSON array or an object wrapping
// one, since json-format mode makes smaller models produce both shapes.
func parseWordList(content string) ([]string, error) {
	content = strings.TrimSpace(content)

	var words []string
	if err := json.Unmarshal([]byte(content), &words); err == nil {
		return cleanWords(words), nil
	}

	var wrapped map[string][]string
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil {
		for _, v := range wrapped {
			return cleanWords(v), nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("unparsable word list %q", content)
}

func cleanWords(words []string) []string {
	out := words[:0]
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
