package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/inkwell/types"
	"google.golang.org/api/option"
)

// GeminiService implements Completer on top of the Gemini API, rotating
// through the configured API keys when a call fails.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
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

func (s *GeminiService) Complete(ctx context.Context, system string, messages []types.Message) (string, error) {
	parts := make([]genai.Part, 0, len(messages))
	for _, msg := range messages {
		if msg.Content != "" {
			parts = append(parts, genai.Text(msg.Content))
		}
		for _, img := range msg.Images {
			parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Content})
		}
	}

	var lastErr error
	for attempt := 0; attempt <= completionRetries; attempt++ {
		model := s.model()
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}

		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			// Try rotating API key if there's an error
			if rotateErr := s.rotateAPIKey(); rotateErr != nil {
				return "", rotateFailure(lastErr, rotateErr)
			}
			continue
		}
		if len(resp.Candidates) == 0 {
			lastErr = errors.New("no response generated")
			continue
		}

		var content strings.Builder
		for _, cand := range resp.Candidates {
			if cand.Content != nil {
				for _, part := range cand.Content.Parts {
					if text, ok := part.(genai.Text); ok {
						content.WriteString(string(text))
					}
				}
			}
		}
		return content.String(), nil
	}
	return "", lastErr
}

// rotateFailure keeps the completion error that triggered the rotation
// visible when the rotation itself fails.
func rotateFailure(completeErr, rotateErr error) error {
	return fmt.Errorf("rotating API key after %v: %w", completeErr, rotateErr)
}

func (s *GeminiService) model() *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.GenerativeModel(s.modelName)
}
