package tshirt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"tshirt-designer-server/modules/common/config"
	"tshirt-designer-server/modules/common/gemini"
	"tshirt-designer-server/modules/common/stability"
)

// PromptRefiner turns an instruction into a refined image prompt
type PromptRefiner interface {
	RefinePrompt(ctx context.Context, instruction string) (string, error)
}

// ImageGenerator renders a prompt into a base64 PNG
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*stability.Result, error)
}

// ImageStore persists named files under the static directory
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// ImageEncoder converts PNG bytes to another format
type ImageEncoder interface {
	Encode(pngData []byte) ([]byte, error)
}

// Options - service settings taken from config
type Options struct {
	PublicBaseURL string
	ImageFormat   string       // config.ImageFormatPNG or config.ImageFormatWebP
	WebPEncoder   ImageEncoder // required for webp
}

type Service struct {
	refiner       PromptRefiner
	generator     ImageGenerator
	store         ImageStore
	publicBaseURL string
	imageFormat   string
	webpEncoder   ImageEncoder
}

func NewService(refiner PromptRefiner, generator ImageGenerator, store ImageStore, opts Options) (*Service, error) {
	if refiner == nil || generator == nil || store == nil {
		return nil, fmt.Errorf("refiner, generator and store are required")
	}

	format := opts.ImageFormat
	if format == "" {
		format = config.ImageFormatPNG
	}
	switch format {
	case config.ImageFormatPNG:
	case config.ImageFormatWebP:
		if opts.WebPEncoder == nil {
			return nil, fmt.Errorf("webp output requires an encoder")
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	return &Service{
		refiner:       refiner,
		generator:     generator,
		store:         store,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		imageFormat:   format,
		webpEncoder:   opts.WebPEncoder,
	}, nil
}

// Generate - refine the idea, render it, store the image and return its URL.
// Upstream failures come back as *GenerationError; anything else is a fault.
func (s *Service) Generate(ctx context.Context, idea string) (*GenerationResponse, error) {
	preview := truncateString(idea, logIdeaPreviewLength)

	// 1. Prompt refinement
	refined, err := s.refiner.RefinePrompt(ctx, BuildRefinementInstruction(idea))
	if err != nil {
		var apiErr *gemini.APIError
		var shapeErr *gemini.ShapeError
		switch {
		case errors.As(err, &apiErr):
			log.Printf("❌ [TShirt] Gemini failed for %q: %v", preview, err)
			return nil, &GenerationError{Tag: TagGeminiFailed, Details: apiErr.Body, Err: err}
		case errors.As(err, &shapeErr):
			log.Printf("❌ [TShirt] Gemini response unusable for %q", preview)
			return nil, &GenerationError{Tag: TagGeminiParsing, Details: shapeErr.Body, Err: err}
		default:
			return nil, fmt.Errorf("failed to refine prompt: %w", err)
		}
	}
	log.Printf("✨ [TShirt] Refined %q → %q", preview, truncateString(refined, logIdeaPreviewLength))

	// 2. Image generation
	result, err := s.generator.GenerateImage(ctx, refined)
	if err != nil {
		var apiErr *stability.APIError
		var missingErr *stability.MissingImageError
		switch {
		case errors.As(err, &apiErr):
			log.Printf("❌ [TShirt] Image generation failed for %q: status %d", preview, apiErr.StatusCode)
			return nil, &GenerationError{Tag: TagImageFailed, Details: apiErr.Body, Err: err}
		case errors.As(err, &missingErr):
			log.Printf("❌ [TShirt] No image data for %q", preview)
			return nil, &GenerationError{Tag: TagNoImageData, Details: missingErr.Body, Err: err}
		default:
			return nil, fmt.Errorf("failed to generate image: %w", err)
		}
	}

	// 3. Persistence
	imageData, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}

	ext, contentType := extensionPNG, contentTypePNG
	if s.imageFormat == config.ImageFormatWebP {
		imageData, err = s.webpEncoder.Encode(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to convert image to WebP: %w", err)
		}
		ext, contentType = extensionWebP, contentTypeWebP
	}

	fileName := FileNameForIdea(idea, ext)
	if _, err := s.store.Save(ctx, fileName, imageData, contentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	// 4. Response
	response := &GenerationResponse{
		Prompt:   refined,
		ImageURL: s.ImageURL(fileName),
	}
	log.Printf("✅ [TShirt] Design ready for %q: %s", preview, response.ImageURL)
	return response, nil
}

// ImageURL - public URL of a stored file
func (s *Service) ImageURL(fileName string) string {
	return s.publicBaseURL + StaticRoutePrefix + fileName
}
