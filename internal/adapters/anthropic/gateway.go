package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"valuator/internal/domain"
	"valuator/internal/gateway"
)

// Messager is the slice of the SDK client the gateway uses.
type Messager interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

type Gateway struct {
	messages Messager
	model    sdk.Model
}

func New(apiKey, model string) (*Gateway, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key not configured")
	}
	c := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewWithMessager(&c.Messages, model), nil
}

func NewWithMessager(m Messager, model string) *Gateway {
	g := &Gateway{messages: m, model: sdk.ModelClaudeSonnet4_20250514}
	if model != "" {
		g.model = sdk.Model(model)
	}
	return g
}

func (g *Gateway) Name() string { return "anthropic" }

// Ask answers without web grounding; the reply carries no citations.
func (g *Gateway) Ask(ctx context.Context, req domain.GatewayRequest) (domain.GatewayAnswer, error) {
	text, err := g.complete(ctx, gateway.ChatSystemPrompt, gateway.AskPrompt(req), 0.3)
	if err != nil {
		return domain.GatewayAnswer{}, err
	}
	return domain.GatewayAnswer{Text: text}, nil
}

func (g *Gateway) GutCheck(ctx context.Context, req domain.GatewayRequest) (domain.GutCheckResult, error) {
	text, err := g.complete(ctx, gateway.GutCheckSystemPrompt, gateway.GutCheckPrompt(req), 0)
	if err != nil {
		return domain.GutCheckResult{}, err
	}
	return gateway.ParseGutCheck(text)
}

func (g *Gateway) complete(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	resp, err := g.messages.New(ctx, sdk.MessageNewParams{
		Model:       g.model,
		MaxTokens:   2048,
		System:      []sdk.TextBlockParam{{Text: system}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
		Temperature: sdk.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", gateway.ErrMalformedResponse)
	}
	return text, nil
}
