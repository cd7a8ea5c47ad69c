package extract

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// openaiProvider implements provider using the OpenAI chat completions API.
type openaiProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(apiKey, model string) *openaiProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openaiProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *openaiProvider) name() string { return "openai" }

func (p *openaiProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("extract: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
