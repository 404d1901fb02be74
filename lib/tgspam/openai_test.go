package tgspam

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tg-moderator/lib/tgspam/mocks"
)

func TestOpenAIModel_Score(t *testing.T) {
	respond := func(content string) func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
			}, nil
		}
	}

	tests := []struct {
		name    string
		content string
		want    float64
		wantErr string
	}{
		{"spam response", `{"spam": true, "reason":"bad text", "confidence":90}`, 0.9, ""},
		{"not spam response", `{"spam": false, "reason":"good text", "confidence":80}`, 0.2, ""},
		{"fenced json", "```json\n{\"spam\": true, \"confidence\":100}\n```", 1, ""},
		{"bad json", `not a json`, 0, "can't unmarshal response"},
		{"bad confidence", `{"spam": true, "confidence":101}`, 0, "confidence 101 out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientMock := &mocks.OpenAIClientMock{CreateChatCompletionFunc: respond(tt.content)}
			m := NewOpenAIModel(clientMock, OpenAIConfig{MaxTokensResponse: 300, Model: "gpt-4o-mini"})
			p, err := m.Score(context.Background(), "some text")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p, 0.0001)

			require.Len(t, clientMock.CreateChatCompletionCalls(), 1)
			req := clientMock.CreateChatCompletionCalls()[0].ChatCompletionRequest
			assert.Equal(t, "gpt-4o-mini", req.Model)
			assert.Equal(t, 300, req.MaxTokens)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
			assert.Equal(t, defaultPrompt, req.Messages[0].Content)
			assert.Equal(t, "some text", req.Messages[1].Content)
		})
	}
}

func TestOpenAIModel_Errors(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		clientMock := &mocks.OpenAIClientMock{
			CreateChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, assert.AnError
			},
		}
		m := NewOpenAIModel(clientMock, OpenAIConfig{})
		assert.Equal(t, "openai:gpt-4o-mini", m.Name())
		_, err := m.Score(context.Background(), "text")
		assert.EqualError(t, err, "failed to create chat completion: "+assert.AnError.Error())
	})

	t.Run("no choices", func(t *testing.T) {
		clientMock := &mocks.OpenAIClientMock{
			CreateChatCompletionFunc: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
				return openai.ChatCompletionResponse{}, nil
			},
		}
		_, err := NewOpenAIModel(clientMock, OpenAIConfig{}).Score(context.Background(), "text")
		assert.EqualError(t, err, "no choices in response")
	})

	t.Run("no client", func(t *testing.T) {
		_, err := NewOpenAIModel(nil, OpenAIConfig{}).Score(context.Background(), "text")
		assert.EqualError(t, err, "openai client not set")
	})
}
