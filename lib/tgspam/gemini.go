package tgspam

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

//go:generate moq --out mocks/gemini_client.go --pkg mocks --skip-ensure --with-resets . GeminiClient:GeminiClientMock

// GeminiClient is a subset of genai models service, satisfied by genai.Client.Models
type GeminiClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig contains parameters for GeminiModel
type GeminiConfig struct {
	Model           string
	SystemPrompt    string
	MaxOutputTokens int32
}

// GeminiModel asks gemini to rate the text, same json contract as OpenAIModel
type GeminiModel struct {
	client GeminiClient
	params GeminiConfig
}

// NewGeminiModel makes a model backed by gemini api
func NewGeminiModel(client GeminiClient, params GeminiConfig) *GeminiModel {
	if params.SystemPrompt == "" {
		params.SystemPrompt = defaultPrompt
	}
	if params.Model == "" {
		params.Model = "gemini-2.0-flash"
	}
	if params.MaxOutputTokens == 0 {
		params.MaxOutputTokens = 1024
	}
	return &GeminiModel{client: client, params: params}
}

// Name of the model
func (g *GeminiModel) Name() string { return "gemini:" + g.params.Model }

// Score sends the text to gemini and converts the answer to probability
func (g *GeminiModel) Score(ctx context.Context, text string) (float64, error) {
	if g.client == nil {
		return 0, errors.New("gemini client not set")
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: g.params.SystemPrompt}}},
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   g.params.MaxOutputTokens,
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := g.client.GenerateContent(ctx, g.params.Model, contents, cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" &&
			resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
			return 0, fmt.Errorf("blocked by safety filter: %s", resp.PromptFeedback.BlockReason)
		}
		return 0, errors.New("no candidates in response")
	}

	r, err := parseLLMResponse(resp.Text())
	if err != nil {
		return 0, err
	}
	return r.probability()
}
