package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	content string
	err     error

	gotSystem   string
	gotUser     string
	gotModel    string
	hadDeadline bool
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	f.gotModel = req.Model
	if len(req.Messages) == 2 {
		f.gotSystem = req.Messages[0].Content
		f.gotUser = req.Messages[1].Content
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newFakeClient(f *fakeCompleter, opts ...Option) *Client {
	c := NewClient("test-key", zerolog.Nop(), opts...)
	c.api = f
	return c
}

func TestExtractQueryTermsParsesWordList(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"bare array", `["mellow", "jazz", "70s"]`, []string{"mellow", "jazz", "70s"}},
		{"fenced array", "```json\n[\"Mellow\", \" Dark \"]\n```", []string{"mellow", "dark"}},
		{"prose-wrapped array", `Sure! Here you go: ["folk"] hope that helps`, []string{"folk"}},
		{"empty array", `[]`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newFakeClient(&fakeCompleter{content: tc.content})
			got, err := c.ExtractQueryTerms(context.Background(), "something mellow")
			require.NoError(t, err)
			if tc.want == nil {
				require.Empty(t, got)
			} else {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestExtractQueryTermsRejectsGarbage(t *testing.T) {
	c := newFakeClient(&fakeCompleter{content: "I have no idea what you mean."})
	_, err := c.ExtractQueryTerms(context.Background(), "something mellow")
	require.Error(t, err)
}

func TestCompletionErrorPropagates(t *testing.T) {
	c := newFakeClient(&fakeCompleter{err: errors.New("quota exceeded")})
	_, err := c.ExtractEntityTraits(context.Background(), "Parliament Nova")
	require.Error(t, err)
}

func TestGeneratePersonaReplyIncludesBackground(t *testing.T) {
	f := &fakeCompleter{content: "  Still spinning the dark stuff.  "}
	c := newFakeClient(f)

	got, err := c.GeneratePersonaReply(context.Background(), "who are you", "currently playing: Night Drive by Dust Choir")
	require.NoError(t, err)
	require.Equal(t, "Still spinning the dark stuff.", got)
	require.Contains(t, f.gotUser, "Night Drive")
}

func TestWithTimeoutBoundsEachCall(t *testing.T) {
	f := &fakeCompleter{content: `[]`}
	c := newFakeClient(f, WithTimeout(5*time.Second))

	_, err := c.ExtractQueryTerms(context.Background(), "anything")
	require.NoError(t, err)
	require.True(t, f.hadDeadline)

	f = &fakeCompleter{content: `[]`}
	c = newFakeClient(f)
	_, err = c.ExtractQueryTerms(context.Background(), "anything")
	require.NoError(t, err)
	require.False(t, f.hadDeadline)
}

func TestWithModelOverride(t *testing.T) {
	f := &fakeCompleter{content: `[]`}
	c := newFakeClient(f, WithModel("gpt-4o"))

	_, err := c.ExtractQueryTerms(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", f.gotModel)
}
