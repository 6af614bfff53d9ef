package generate

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"podcastogist/internal/errors"
)

// DefaultModel is the fast, cost-effective model used for content generation.
const DefaultModel = "gpt-5-mini"

// OpenAICompleter implements Completer with OpenAI structured outputs.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer for the given API key. An empty
// model selects DefaultModel.
func NewOpenAICompleter(apiKey, model string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAICompleter{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Complete runs one chat completion constrained to the request schema and
// returns the raw JSON content.
func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "%s completion", req.SchemaName)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.Newf("%s completion returned no content", req.SchemaName)
	}
	return resp.Choices[0].Message.Content, nil
}
