package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebPEncoderEncode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		for y := 0; y < 8; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, src))

	webpData, err := WebPEncoder{Quality: 80}.Encode(pngData.Bytes())
	require.NoError(t, err)

	require.Greater(t, len(webpData), 12)
	assert.Equal(t, "RIFF", string(webpData[0:4]))
	assert.Equal(t, "WEBP", string(webpData[8:12]))

	decoded, err := webp.Decode(bytes.NewReader(webpData), &decoder.Options{})
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), decoded.Bounds())
}

func TestWebPEncoderRejectsNonPNG(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     nil,
		"jpeg head": {0xFF, 0xD8, 0xFF, 0xE0},
		"text":      []byte("not an image"),
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := WebPEncoder{Quality: 80}.Encode(data)
			assert.ErrorContains(t, err, "failed to decode PNG")
		})
	}
}
