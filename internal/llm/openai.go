package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI     = "openai"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type chatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient completes conversations with an OpenAI-compatible chat API
type OpenAIClient struct {
	client chatCompletionCreator
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(apiKey, model string, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, conv *Conversation) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(conv),
	}

	c.logger.Debug("Calling OpenAI",
		zap.String("model", c.model),
		zap.Int("messages", len(req.Messages)))

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", newUpstreamError(ProviderOpenAI, openAIStatus(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", newUpstreamError(ProviderOpenAI, 0, ErrEmptyAnswer)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", newUpstreamError(ProviderOpenAI, 0, ErrEmptyAnswer)
	}

	return answer, nil
}

func toOpenAIMessages(conv *Conversation) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(conv.Turns)+1)
	if conv.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: conv.SystemInstruction,
		})
	}
	for _, t := range conv.Turns {
		role := openai.ChatMessageRoleUser
		if t.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}
	return messages
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
