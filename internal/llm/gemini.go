package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderGemini     = "gemini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// geminiModels is the subset of *genai.Models used here
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient completes conversations with Google's Gemini API
type GeminiClient struct {
	models geminiModels
	model  string
	logger *zap.Logger
}

// NewGeminiClient создаёт клиент Gemini
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		models: client.Models,
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends the conversation and returns the answer text
func (c *GeminiClient) Complete(ctx context.Context, conv *Conversation) (string, error) {
	contents := toGeminiContents(conv.Turns)

	config := &genai.GenerateContentConfig{}
	if conv.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(conv.SystemInstruction, genai.RoleUser)
	}

	c.logger.Debug("Calling Gemini",
		zap.String("model", c.model),
		zap.Int("turns", len(contents)))

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", newUpstreamError(ProviderGemini, geminiStatus(err), err)
	}

	answer := ""
	if resp != nil {
		answer = strings.TrimSpace(resp.Text())
	}
	if answer == "" {
		return "", newUpstreamError(ProviderGemini, 0, ErrEmptyAnswer)
	}

	return answer, nil
}

func toGeminiContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.RoleUser
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(role)))
	}
	return contents
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
