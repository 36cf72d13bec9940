// Package openai implements the understanding port against the OpenAI
// chat completions API. Every call is best-effort: callers treat an
// error as an empty result.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel = openai.GPT4oMini

	extractSystem = "You pull musical descriptors out of chat messages about songs. " +
		"Reply with ONLY a JSON array of lowercase keywords (moods, genres, textures, decades, energy words). " +
		"No prose. Example: [\"mellow\", \"jazz\", \"70s\"]. Reply [] if the message describes nothing musical."

	entitySystem = "You describe musical artists as trait words. " +
		"Reply with ONLY a JSON array of lowercase descriptors for the artist's typical sound " +
		"(moods, genres, textures, decades, energy words). Reply [] if you do not know the artist."

	personaSystem = "You are the resident record collector of a one-person music site: " +
		"opinionated, warm, a little wry, never more than three sentences. " +
		"You never invent songs and never promise anything you cannot play."
)

// completer is the narrow slice of the OpenAI client we use; tests
// substitute a fake.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements ports.Understanding.
type Client struct {
	api     completer
	model   string
	timeout time.Duration
	log     zerolog.Logger
}

// Option tweaks client construction.
type Option func(*Client)

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTimeout caps each completion call. Zero means no cap beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithBaseURL points the client at a different endpoint (tests, proxies).
func WithBaseURL(apiKey, baseURL string) Option {
	return func(c *Client) {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		c.api = openai.NewClientWithConfig(cfg)
	}
}

// NewClient builds a client for the given API key.
func NewClient(apiKey string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		api:   openai.NewClient(apiKey),
		model: defaultModel,
		log:   log.With().Str("component", "openai").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
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
	content, err := c.complete(ctx, personaSystem, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) wordList(ctx context.Context, system, user string) ([]string, error) {
	content, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	var words []string
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &words); err != nil {
		return nil, fmt.Errorf("openai: unparsable word list %q: %w", content, err)
	}
	out := words[:0]
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSONArray tolerates models that wrap the array in prose or
// markdown fences.
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
