package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/second-brain-be/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiService is the primary generation tier. It streams answers from the
// Gemini API and rotates between API keys when a call fails, so quota
// exhaustion on one key does not immediately force the local fallback.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
	}

	if err := service.initClient(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

// ChatStream streams generated text to handler one fragment at a time. On a
// call-setup error it rotates to the next API key and retries once; once any
// fragment has been forwarded, errors are returned as-is so the caller never
// sees the answer restart from the top.
func (s *GeminiService) ChatStream(ctx context.Context, prompt string, handler types.StreamHandler) error {
	return streamWithRotation(func(h types.StreamHandler) error {
		return s.streamOnce(ctx, prompt, h)
	}, s.rotateAPIKey, handler)
}

func (s *GeminiService) streamOnce(ctx context.Context, prompt string, handler types.StreamHandler) error {
	iter := s.model.GenerateContentStream(ctx, genai.Text(prompt))

	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}

		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					handler(string(text))
				}
			}
		}
	}
}

// streamWithRotation retries stream on a different key only while no output
// has reached the handler. A failure after output went out is not retried,
// replaying the stream would duplicate the already-delivered prefix.
func streamWithRotation(stream func(types.StreamHandler) error, rotate func() error, handler types.StreamHandler) error {
	forwarded := false
	wrapped := func(fragment string) {
		forwarded = true
		handler(fragment)
	}

	err := stream(wrapped)
	if err == nil || forwarded {
		return err
	}
	if err := rotate(); err != nil {
		return err
	}
	return stream(wrapped)
}
