package tgspam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

//go:generate moq --out mocks/openai_client.go --pkg mocks --skip-ensure --with-resets . OpenAIClient:OpenAIClientMock

// OpenAIClient is a subset of go-openai client used by OpenAIModel
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIConfig contains parameters for OpenAIModel
type OpenAIConfig struct {
	// https://platform.openai.com/docs/api-reference/chat/create#chat/create-max_tokens
	MaxTokensResponse int // hard limit for the number of tokens in the response
	Model             string
	SystemPrompt      string
}

// OpenAIModel asks a chat completion model to rate the text
type OpenAIModel struct {
	client OpenAIClient
	params OpenAIConfig
}

const defaultPrompt = `I'll give you a text from a Russian-speaking group chat and you will return me a json with three fields: {"spam": true/false, "reason":"why this is spam", "confidence":1-100}. Confidence is how sure you are in the spam field. Return json only.`

// llmResponse is the json contract of llm models
type llmResponse struct {
	IsSpam     bool   `json:"spam"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// probability converts response to spam probability
func (r llmResponse) probability() (float64, error) {
	if r.Confidence < 0 || r.Confidence > 100 {
		return 0, fmt.Errorf("confidence %d out of range", r.Confidence)
	}
	c := float64(r.Confidence) / 100
	if r.IsSpam {
		return c, nil
	}
	return 1 - c, nil
}

// parseLLMResponse decodes json response, tolerating markdown code fences
func parseLLMResponse(text string) (llmResponse, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	var resp llmResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &resp); err != nil {
		return llmResponse{}, fmt.Errorf("can't unmarshal response: %w", err)
	}
	return resp, nil
}

// NewOpenAIModel makes a model backed by ChatGPT
func NewOpenAIModel(client OpenAIClient, params OpenAIConfig) *OpenAIModel {
	if params.SystemPrompt == "" {
		params.SystemPrompt = defaultPrompt
	}
	if params.MaxTokensResponse == 0 {
		params.MaxTokensResponse = 1024
	}
	if params.Model == "" {
		params.Model = "gpt-4o-mini"
	}
	return &OpenAIModel{client: client, params: params}
}

// Name of the model
func (o *OpenAIModel) Name() string { return "openai:" + o.params.Model }

// Score sends the text to openai and converts the answer to probability
func (o *OpenAIModel) Score(ctx context.Context, text string) (float64, error) {
	if o.client == nil {
		return 0, errors.New("openai client not set")
	}
	data := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: o.params.SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}

	resp, err := o.client.CreateChatCompletion(ctx,
		openai.ChatCompletionRequest{Model: o.params.Model, MaxTokens: o.params.MaxTokensResponse, Messages: data})
	if err != nil {
		return 0, fmt.Errorf("failed to create chat completion: %w", err)
	}

	// OpenAI platform supports returning multiple chat completion choices, but we use only the first one:
	// https://platform.openai.com/docs/api-reference/chat/create#chat/create-n
	if len(resp.Choices) == 0 {
		return 0, errors.New("no choices in response")
	}

	r, err := parseLLMResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return 0, err
	}
	return r.probability()
}
