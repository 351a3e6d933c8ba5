package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/lawai/lawai-be/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiService implements LanguageModel against the Gemini API. Multiple
// API keys can be supplied; a failing call rotates to the next key once
// before giving up.
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
		apiKeys:   apiKeys,
		modelName: modelName,
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

func (s *GeminiService) Generate(ctx context.Context, system, user string) (string, error) {
	prompt := genai.Text(system + "\n\n" + user)
	resp, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		if rotateErr := s.rotateAPIKey(); rotateErr != nil {
			return "", rotateErr
		}
		resp, err = s.model.GenerateContent(ctx, prompt)
		if err != nil {
			return "", err
		}
	}
	content := collectText(resp)
	if content == "" {
		return "", errors.New("no response generated")
	}
	return content, nil
}

func (s *GeminiService) GenerateStream(ctx context.Context, system, user string, handler types.StreamHandler) error {
	prompt := genai.Text(system + "\n\n" + user)
	iter := s.model.GenerateContentStream(ctx, prompt)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
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

func collectText(resp *genai.GenerateContentResponse) string {
	content := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content
}
