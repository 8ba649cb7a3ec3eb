package utils

import (
	"bytes"
	"fmt"
	"image/png"
	"log"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// WebPEncoder - lossy PNG to WebP conversion at a fixed quality
type WebPEncoder struct {
	Quality float32
}

// Encode - decode PNG bytes and re-encode them as WebP
func (e WebPEncoder) Encode(pngData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, e.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	if len(pngData) > 0 {
		log.Printf("🔄 PNG converted to WebP (quality %.0f): %d bytes → %d bytes (%.1f%% reduction)",
			e.Quality, len(pngData), len(webpData),
			float64(len(pngData)-len(webpData))/float64(len(pngData))*100)
	}

	return webpData, nil
}
