package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/listkeeper/listkeeper/internal/assistant"
	"github.com/listkeeper/listkeeper/internal/config"
	"google.golang.org/api/option"
)

// Provider implements assistant.Provider on top of Gemini, as an alternative
// backend for deployments without an Azure OpenAI subscription.
type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) defaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-1.5-flash"
}

func (p *Provider) Interpret(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := p.defaultModel()
	generativeModel := client.GenerativeModel(model)
	var temperature float32 = 0.2
	generativeModel.Temperature = &temperature
	generativeModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(assistant.SystemPrompt)},
	}

	start := time.Now()
	resp, err := generativeModel.GenerateContent(ctx, genai.Text(assistant.BuildPrompt(req)))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}

	reply, intent, err := assistant.ParseEnvelope(output)
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Reply:     reply,
		Intent:    intent,
		Model:     model,
		LatencyMs: latency,
	}, nil
}
