package service

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"snapspend/pkg/config"
)

// GeminiClient is the one shared connection to the Gemini API. Both the OCR
// and the structuring gateway go through it.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// GenerateText sends one user turn and returns the model's text response.
func (g *GeminiClient) GenerateText(ctx context.Context, parts []*genai.Part) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: parts},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}
