package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
)

// ModelGateway implements contract.Gateway over the selected provider.
// Exactly one of direct (OpenAI SDK) or model (eino chat model) is set.
type ModelGateway struct {
	provider  Provider
	direct    *openaisdk.Client
	model     einomodel.BaseChatModel
	modelName string
}

var _ contractx.Gateway = (*ModelGateway)(nil)

func (g *ModelGateway) Provider() Provider {
	return g.provider
}

func (g *ModelGateway) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if g.direct != nil {
		return g.generateDirect(ctx, systemPrompt, prompt)
	}
	if g.model != nil {
		return g.generateEino(ctx, systemPrompt, prompt)
	}
	return "", fmt.Errorf("%w: gateway has no backing model", contractx.ErrGatewayUnavailable)
}

func (g *ModelGateway) generateDirect(ctx context.Context, systemPrompt, prompt string) (string, error) {
	resp, err := g.direct.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.modelName),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s completion: %v", contractx.ErrGatewayUnavailable, g.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned no choices", contractx.ErrGatewayUnavailable, g.provider)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (g *ModelGateway) generateEino(ctx context.Context, systemPrompt, prompt string) (string, error) {
	msg, err := g.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s completion: %v", contractx.ErrGatewayUnavailable, g.provider, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: %s returned empty message", contractx.ErrGatewayUnavailable, g.provider)
	}
	return strings.TrimSpace(msg.Content), nil
}
