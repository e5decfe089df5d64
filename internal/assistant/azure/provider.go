package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/listkeeper/listkeeper/internal/assistant"
	"github.com/listkeeper/listkeeper/internal/config"
)

// Provider implements assistant.Provider against an Azure OpenAI deployment.
type Provider struct {
	endpoint   string
	deployment string
	apiKey     string
	apiVersion string
	client     *http.Client
}

// NewProvider creates a new Azure OpenAI provider
func NewProvider(cfg config.AzureConfig) *Provider {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-08-01-preview"
	}
	return &Provider{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		deployment: cfg.Deployment,
		apiKey:     cfg.Key,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "azure"
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.endpoint != "" && p.deployment != "" && p.apiKey != ""
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Interpret sends the conversation to the deployment and parses the reply
// envelope.
func (p *Provider) Interpret(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("azure provider is not configured")
	}

	messages := []chatMessage{{Role: "system", Content: assistant.SystemPrompt}}
	for _, turn := range req.History {
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: assistant.BuildPrompt(req)})

	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, p.deployment, p.apiVersion)

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azure openai returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no response from azure openai")
	}

	reply, intent, err := assistant.ParseEnvelope(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Reply:     reply,
		Intent:    intent,
		Model:     p.deployment,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
