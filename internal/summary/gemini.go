package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "yt-summarizer/internal/errors"
)

// GeminiOptions selects the backend: the Gemini API when APIKey is set,
// Vertex AI (Project, Location) otherwise.
type GeminiOptions struct {
	APIKey   string
	Project  string
	Location string
	Model    string
	// BaseURL overrides the service endpoint.
	BaseURL string
}

// GeminiModel generates text with Google's generative models.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, opts GeminiOptions) (*GeminiModel, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("gemini model is not set")
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.APIKey == "" {
		cfg = &genai.ClientConfig{
			Project:  opts.Project,
			Location: opts.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiModel{client: client, model: opts.Model}, nil
}

// Generate sends prompt as the only user message and returns the reply text.
func (g *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeUpstream, "Gemini API error: "+providerMessage(err))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", apperrors.New(apperrors.CodeUpstream, "Gemini API error: empty response")
	}
	return text, nil
}

// providerMessage returns the message the API sent with a failed call. The
// SDK returns APIError by value.
func providerMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Message != "" {
		return apiErrPtr.Message
	}
	return err.Error()
}
