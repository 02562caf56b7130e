package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"
	llmTimeout         = 60 * time.Second
)

// completer is the narrow surface of the LLM service the rest of the code
// depends on. Tests substitute stubs for it.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Process-wide LLM handle, configured once at startup. Read-only after
// initialization, safe for concurrent requests.
var llm completer

type geminiCompleter struct {
	model *genai.GenerativeModel
}

// initGemini configures the process-wide Gemini client. The returned close
// function releases the underlying connection.
func initGemini(ctx context.Context, apiKey, modelName string) (func() error, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key provided. Set GOOGLE_API_KEY or use --api-key")
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	llm = &geminiCompleter{model: client.GenerativeModel(modelName)}
	return client.Close, nil
}

func (g *geminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no content candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text parts")
	}

	return sb.String(), nil
}
