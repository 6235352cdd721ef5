package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
)

// Generator produces a summary of README text.
type Generator interface {
	Generate(ctx context.Context, repositoryID, readme string) (string, error)
}

// GeneratorFunc adapts a function to [Generator].
type GeneratorFunc func(ctx context.Context, repositoryID, readme string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, repositoryID, readme string) (string, error) {
	return f(ctx, repositoryID, readme)
}

// Generator defaults.
const (
	DefaultModel    = "gpt-4o-mini"
	DefaultLanguage = "Japanese"
)

// OpenAIConfig configures an [OpenAIGenerator].
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string // empty = api.openai.com
	Model    string
	Language string
	Logger   *log.Logger
}

// OpenAIGenerator summarizes with an OpenAI-compatible chat completion API.
type OpenAIGenerator struct {
	client   *openai.Client
	model    string
	language string
	logger   *log.Logger
}

// NewOpenAIGenerator creates a generator. Empty Model and Language use
// [DefaultModel] and [DefaultLanguage].
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &OpenAIGenerator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		language: cfg.Language,
		logger:   cfg.Logger,
	}
}

// Model returns the chat model name.
func (g *OpenAIGenerator) Model() string { return g.model }

// Language returns the summary language.
func (g *OpenAIGenerator) Language() string { return g.language }

// Generate asks the model for a three-line summary of readme.
func (g *OpenAIGenerator) Generate(ctx context.Context, repositoryID, readme string) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(g.language, readme)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", perrors.Upstream(nil, "empty completion for %s", repositoryID)
	}

	g.logger.Debug("generated summary",
		"repo", repositoryID,
		"model", g.model,
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

const systemPrompt = "You summarize open source software projects for public administrations."

// Prompt builds the user message for readme.
func Prompt(language, readme string) string {
	return fmt.Sprintf("Summarize the following README in three lines, written in %s.\n\n%s", language, readme)
}

// parseAPIError maps completion failures onto upstream fetch errors, keeping
// the HTTP status so callers can tell quota problems from outages.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		fe := perrors.Upstream(err, "summary API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		fe.StatusCode = apiErr.HTTPStatusCode
		return fe
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		fe := perrors.Upstream(err, "summary API error %d", reqErr.HTTPStatusCode)
		fe.StatusCode = reqErr.HTTPStatusCode
		return fe
	}
	return perrors.Upstream(err, "summary request failed")
}
