package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"valuator/internal/domain"
	"valuator/internal/gateway"
)

const DefaultModel = "gemini-1.5-pro"

// Generator is the slice of genai.Models the gateway uses.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gateway answers questions with Google Search grounding enabled and
// returns the web citations it was given.
type Gateway struct {
	models Generator
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Gateway, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewWithGenerator(client.Models, model), nil
}

func NewWithGenerator(g Generator, model string) *Gateway {
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{models: g, model: model}
}

func (g *Gateway) Name() string { return "gemini" }

func (g *Gateway) Ask(ctx context.Context, req domain.GatewayRequest) (domain.GatewayAnswer, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(gateway.AskPrompt(req)), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return domain.GatewayAnswer{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return domain.GatewayAnswer{}, fmt.Errorf("%w: empty completion", gateway.ErrMalformedResponse)
	}
	return domain.GatewayAnswer{Text: text, GroundingMetadata: citations(resp)}, nil
}

func (g *Gateway) GutCheck(ctx context.Context, req domain.GatewayRequest) (domain.GutCheckResult, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(gateway.GutCheckPrompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(gateway.GutCheckSystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return domain.GutCheckResult{}, fmt.Errorf("gemini generate: %w", err)
	}
	return gateway.ParseGutCheck(resp.Text())
}

func citations(resp *genai.GenerateContentResponse) *domain.GroundingMetadata {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	md := &domain.GroundingMetadata{}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		md.GroundingChunks = append(md.GroundingChunks, domain.GroundingChunk{
			Web: &domain.WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title},
		})
	}
	return gateway.NormalizeGrounding(md)
}
