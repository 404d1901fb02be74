package tgspam

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/umputun/tg-moderator/lib/tgspam/mocks"
)

func geminiResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}}},
	}
}

func TestGeminiModel_Score(t *testing.T) {
	clientMock := &mocks.GeminiClientMock{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content,
			config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return geminiResponse(`{"spam": true, "reason":"ads", "confidence":95}`), nil
		},
	}
	m := NewGeminiModel(clientMock, GeminiConfig{Model: "gemini-test"})
	assert.Equal(t, "gemini:gemini-test", m.Name())

	p, err := m.Score(context.Background(), "купите дешево")
	require.NoError(t, err)
	assert.InDelta(t, 0.95, p, 0.0001)

	calls := clientMock.GenerateContentCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gemini-test", calls[0].Model)
	require.Len(t, calls[0].Contents, 1)
	assert.Equal(t, "купите дешево", calls[0].Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", calls[0].Config.ResponseMIMEType)
	assert.Equal(t, defaultPrompt, calls[0].Config.SystemInstruction.Parts[0].Text)
}

func TestGeminiModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		wantErr string
	}{
		{"client error", nil, assert.AnError, "failed to generate content"},
		{"no candidates", &genai.GenerateContentResponse{}, nil, "no candidates in response"},
		{"blocked", &genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReasonSafety}}, nil, "blocked by safety filter"},
		{"bad json", geminiResponse("I think it is spam"), nil, "can't unmarshal response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientMock := &mocks.GeminiClientMock{
				GenerateContentFunc: func(context.Context, string, []*genai.Content,
					*genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, tt.err
				},
			}
			_, err := NewGeminiModel(clientMock, GeminiConfig{}).Score(context.Background(), "text")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewGeminiModel(nil, GeminiConfig{}).Score(context.Background(), "text")
	assert.EqualError(t, err, "gemini client not set")
}
