package stability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "https://api.stability.ai"
	generatePath   = "/v2beta/stable-image/generate/core"

	// OutputFormat is requested on every call; other encodings are derived locally.
	OutputFormat = "png"
)

// Client represents the Stability AI Stable Image API client
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// Result is a successful generation
type Result struct {
	ImageBase64  string
	FinishReason string
	Seed         int64
}

// APIError - non-2xx answer, Body is the raw response text
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stability API error %d: %s", e.StatusCode, e.Body)
}

// MissingImageError - 2xx answer without an "image" field
type MissingImageError struct {
	Body map[string]any
}

func (e *MissingImageError) Error() string {
	return "stability response has no image data"
}

// NewClient creates a new Stability API client. A nil httpClient uses
// http.DefaultClient.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// GenerateImage submits the prompt as multipart form data and returns the
// base64 image from the JSON response
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("failed to write prompt: %w", err)
	}
	if err := writer.WriteField("output_format", OutputFormat); err != nil {
		return nil, fmt.Errorf("failed to write output_format: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	log.Printf("📤 [Stability] Requesting image (prompt length: %d)", len(prompt))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("❌ [Stability] API returned %d", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(rawBody)}
	}

	var decoded map[string]any
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	image, _ := decoded["image"].(string)
	if image == "" {
		log.Printf("❌ [Stability] Response has no image field")
		return nil, &MissingImageError{Body: decoded}
	}

	result := &Result{ImageBase64: image}
	if reason, ok := decoded["finish_reason"].(string); ok {
		result.FinishReason = reason
	}
	if seed, ok := decoded["seed"].(float64); ok {
		result.Seed = int64(seed)
	}

	log.Printf("✅ [Stability] Image received (%d base64 chars, finish_reason: %s, seed: %d)",
		len(image), result.FinishReason, result.Seed)
	return result, nil
}
