package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/inkwell/types"
)

// OpenAIService implements Completer against any OpenAI-compatible endpoint.
// Page images are attached as base64 data URL parts.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client: client,
		model:  model,
	}
}

func (s *OpenAIService) Complete(ctx context.Context, system string, messages []types.Message) (string, error) {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, msg := range messages {
		if len(msg.Images) == 0 {
			openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			})
			continue
		}
		parts := make([]openai.ChatMessagePart, 0, len(msg.Images)+1)
		if msg.Content != "" {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: msg.Content,
			})
		}
		for _, img := range msg.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Content)),
				},
			})
		}
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:         msg.Role,
			MultiContent: parts,
		})
	}

	var lastErr error
	for attempt := 0; attempt <= completionRetries; attempt++ {
		resp, err := s.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Messages: openaiMessages,
				Model:    s.model,
			},
		)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("no response generated")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", lastErr
}
