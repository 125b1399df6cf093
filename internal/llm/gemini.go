// Package llm wraps the Gemini text/object generation API used for
// interview questions and feedback scoring.
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/prompts"
)

// DefaultModel is used when no model id is configured.
const DefaultModel = "gemini-2.0-flash-001"

// Gemini is a thin client over the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini constructs a Gemini client for the public Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key missing")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GenerateQuestions produces the ordered interview question list for the
// given request.
func (g *Gemini) GenerateQuestions(ctx context.Context, req prompts.QuestionRequest) ([]string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompts.Questions(req)), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("gemini: no response generated")
	}
	text, err := result.Text()
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to extract response text: %w", err)
	}
	return ParseQuestions(text)
}

// GenerateFeedback grades a serialized transcript against the fixed
// rubric and returns the structured result.
func (g *Gemini) GenerateFeedback(ctx context.Context, formattedTranscript string) (*agent.FeedbackResult, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompts.Feedback(formattedTranscript)), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("gemini: no response generated")
	}
	text, err := result.Text()
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to extract response text: %w", err)
	}
	return ParseFeedback(text)
}

// stripFences removes a surrounding markdown code fence if the model
// wrapped its output in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
