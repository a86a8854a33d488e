package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"valuator/internal/domain"
	"valuator/internal/gateway"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.config = model, config
	return f.resp, f.err
}

func textResponse(text string, chunks ...*genai.GroundingChunk) *genai.GenerateContentResponse {
	c := &genai.Candidate{Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}}
	if len(chunks) > 0 {
		c.GroundingMetadata = &genai.GroundingMetadata{GroundingChunks: chunks}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{c}}
}

func TestAskReturnsCitations(t *testing.T) {
	f := &fakeGenerator{resp: textResponse("Median AI seed pre-money is $12M.",
		&genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: "https://www.example.com/report", Title: "AI seed report"}},
		&genai.GroundingChunk{},
	)}
	g := NewWithGenerator(f, "")

	ans, err := g.Ask(context.Background(), domain.GatewayRequest{Message: "AI seed valuations?"})
	require.NoError(t, err)
	assert.Equal(t, "Median AI seed pre-money is $12M.", ans.Text)
	require.NotNil(t, ans.GroundingMetadata)
	require.Len(t, ans.GroundingMetadata.GroundingChunks, 1)
	assert.Equal(t, "example.com", ans.GroundingMetadata.GroundingChunks[0].Web.Domain)

	assert.Equal(t, DefaultModel, f.model)
	require.Len(t, f.config.Tools, 1)
	assert.NotNil(t, f.config.Tools[0].GoogleSearch)
}

func TestAskWithoutGrounding(t *testing.T) {
	g := NewWithGenerator(&fakeGenerator{resp: textResponse("plain")}, "gemini-2.0-flash")
	ans, err := g.Ask(context.Background(), domain.GatewayRequest{})
	require.NoError(t, err)
	assert.Nil(t, ans.GroundingMetadata)
}

func TestGutCheck(t *testing.T) {
	f := &fakeGenerator{resp: textResponse(`{"convictionScore": 35, "suggestedAdjustment": -1000000, "reasoning": "Founder risk."}`)}
	res, err := NewWithGenerator(f, "").GutCheck(context.Background(), domain.GatewayRequest{Message: "cofounder leaving"})
	require.NoError(t, err)
	assert.Equal(t, -1_000_000.0, res.SuggestedAdjustment)
	assert.Equal(t, "application/json", f.config.ResponseMIMEType)
}

func TestErrors(t *testing.T) {
	boom := errors.New("quota")
	_, err := NewWithGenerator(&fakeGenerator{err: boom}, "").Ask(context.Background(), domain.GatewayRequest{})
	assert.ErrorIs(t, err, boom)

	_, err = NewWithGenerator(&fakeGenerator{resp: &genai.GenerateContentResponse{}}, "").Ask(context.Background(), domain.GatewayRequest{})
	assert.ErrorIs(t, err, gateway.ErrMalformedResponse)

	_, err = NewWithGenerator(&fakeGenerator{resp: textResponse("nope")}, "").GutCheck(context.Background(), domain.GatewayRequest{})
	assert.ErrorIs(t, err, gateway.ErrMalformedResponse)
}
