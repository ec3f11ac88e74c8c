package narrative

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DirectClient holds a long-lived Gemini connection for bulk work. The batch
// pre-generation tool uses it instead of the per-call GeminiProvider so one
// client survives the whole indicator walk.
type DirectClient struct {
	client    *genai.Client
	modelName string
}

// NewDirectClient connects using GEMINI_API_KEY. Callers must Close it.
func NewDirectClient(ctx context.Context, modelName string) (*DirectClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash-lite"
	}
	return &DirectClient{client: client, modelName: modelName}, nil
}

var _ Provider = (*DirectClient)(nil)

// GenerateResponse produces one completion over the shared connection.
func (c *DirectClient) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(500)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from model %s", c.modelName)
	}
	return b.String(), nil
}

// Close releases the underlying connection.
func (c *DirectClient) Close() error {
	return c.client.Close()
}

// IsQuotaError reports whether a generation error looks like a rate limit,
// so bulk callers can back off instead of burning the remaining quota.
func IsQuotaError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}
