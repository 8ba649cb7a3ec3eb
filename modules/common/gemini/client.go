package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/genai"
)

// Options - construction parameters for Client
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string // empty keeps the SDK default endpoint
	HTTPClient *http.Client
}

// Client - prompt refinement over the Gemini generateContent API
type Client struct {
	genaiClient *genai.Client
	model       string
}

// APIError - Gemini answered with a non-2xx status
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	// Body is the raw upstream response text.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// ShapeError - 2xx response without candidates[0].content.parts[0].text
type ShapeError struct {
	Body any
}

func (e *ShapeError) Error() string {
	return "gemini response has no candidate text"
}

// NewClient - create the genai client for the Gemini API backend
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: recordingClient(opts.HTTPClient),
	}
	if opts.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	genaiClient, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}

	log.Printf("✅ [Gemini] Client initialized (model: %s)", opts.Model)
	return &Client{
		genaiClient: genaiClient,
		model:       opts.Model,
	}, nil
}

// RefinePrompt - send the instruction as a single user turn and return
// the first candidate's first text part
func (c *Client) RefinePrompt(ctx context.Context, instruction string) (string, error) {
	log.Printf("📤 [Gemini] Sending refinement request (model: %s, length: %d)", c.model, len(instruction))

	ctx, rawError := withErrorBody(ctx)
	result, err := c.genaiClient.Models.GenerateContent(ctx, c.model, genai.Text(instruction), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Printf("❌ [Gemini] API returned %d: %s", apiErr.Code, apiErr.Message)
			status, raw := rawError.get()
			return "", newAPIError(apiErr, status, raw)
		}
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	text, ok := firstCandidateText(result)
	if !ok {
		log.Printf("❌ [Gemini] Response has no candidate text (candidates: %d)", len(result.Candidates))
		return "", &ShapeError{Body: result}
	}

	log.Printf("✅ [Gemini] Refined prompt received (%d chars)", len(text))
	return text, nil
}

func firstCandidateText(result *genai.GenerateContentResponse) (string, bool) {
	if result == nil || len(result.Candidates) == 0 {
		return "", false
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.Text == "" {
		return "", false
	}
	return part.Text, true
}

// newAPIError - forward the upstream body as received; rebuild the Google
// error envelope only when no body was recorded
func newAPIError(apiErr genai.APIError, status int, raw []byte) *APIError {
	if raw != nil {
		return &APIError{
			StatusCode: status,
			Status:     apiErr.Status,
			Message:    apiErr.Message,
			Body:       string(raw),
		}
	}

	envelope := map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
			"status":  apiErr.Status,
			"details": apiErr.Details,
		},
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		body = []byte(apiErr.Error())
	}

	return &APIError{
		StatusCode: apiErr.Code,
		Status:     apiErr.Status,
		Message:    apiErr.Message,
		Body:       string(body),
	}
}
