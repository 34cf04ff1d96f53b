package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Decoding parameters for the local model. Sampling with a high temperature
// plus a repetition penalty counters its tendency to echo the prompt;
// answers that still come back as copies are caught by the overlap check in
// the orchestrator.
const (
	localMaxNewTokens     = 80
	localTemperature      = 0.8
	localTopP             = 0.9
	localFrequencyPenalty = 1.2
)

// LocalAIService runs inference against a local OpenAI-compatible server
// (LM Studio, llama.cpp server, ...). No data leaves the machine on this tier.
type LocalAIService struct {
	client *openai.Client
	model  string
}

func NewLocalAIService(baseURL, apiKey, model string) *LocalAIService {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL // Set this to your local LLM server URL
	client := openai.NewClientWithConfig(config)
	return &LocalAIService{
		client: client,
		model:  model,
	}
}

// Ping verifies the local server is reachable. Called once at startup; a
// failure marks the tier unavailable for the process lifetime.
func (s *LocalAIService) Ping(ctx context.Context) error {
	_, err := s.client.ListModels(ctx)
	return err
}

func (s *LocalAIService) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:        localMaxNewTokens,
			Temperature:      localTemperature,
			TopP:             localTopP,
			FrequencyPenalty: localFrequencyPenalty,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
