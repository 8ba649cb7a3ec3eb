package tshirt

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tshirt-designer-server/modules/common/gemini"
	"tshirt-designer-server/modules/common/stability"
)

func postGenerate(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/generate-tshirt", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestHandleGenerateSuccess(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.service)

	rec, body := postGenerate(t, h, `{"idea":"a cat riding a skateboard"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, catPrompt, body["prompt"])
	assert.Equal(t, "http://localhost:8000/static/"+FileNameForIdea(catIdea, "png"), body["image_url"])
}

func TestHandleGenerateTaggedErrorsReturn200(t *testing.T) {
	tests := []struct {
		name        string
		refinerErr  error
		imageErr    error
		wantTag     string
		wantDetails any
	}{
		{
			name:        "gemini failure",
			refinerErr:  &gemini.APIError{StatusCode: 400, Body: "bad request"},
			wantTag:     TagGeminiFailed,
			wantDetails: "bad request",
		},
		{
			name:        "gemini parsing",
			refinerErr:  &gemini.ShapeError{Body: map[string]any{"candidates": []any{}}},
			wantTag:     TagGeminiParsing,
			wantDetails: map[string]any{"candidates": []any{}},
		},
		{
			name:        "image failure",
			imageErr:    &stability.APIError{StatusCode: 402, Body: "insufficient credits"},
			wantTag:     TagImageFailed,
			wantDetails: "insufficient credits",
		},
		{
			name:        "no image data",
			imageErr:    &stability.MissingImageError{Body: map[string]any{"seed": float64(7)}},
			wantTag:     TagNoImageData,
			wantDetails: map[string]any{"seed": float64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.refiner.err = tt.refinerErr
			f.generator.err = tt.imageErr

			rec, body := postGenerate(t, NewHandler(f.service), `{"idea":"anything"}`)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantTag, body["error"])
			assert.Equal(t, tt.wantDetails, body["details"])
		})
	}
}

func TestHandleGenerateRejectsBadInput(t *testing.T) {
	tests := map[string]struct {
		body    string
		wantErr string
	}{
		"not json":     {body: `idea=cat`, wantErr: "Invalid request format"},
		"wrong type":   {body: `{"idea": 42}`, wantErr: "Invalid request format"},
		"missing idea": {body: `{}`, wantErr: "Idea is required"},
		"blank idea":   {body: `{"idea":"   "}`, wantErr: "Idea is required"},
		"null idea":    {body: `{"idea":null}`, wantErr: "Idea is required"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			rec, body := postGenerate(t, NewHandler(f.service), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, body["error"])
			assert.Empty(t, f.refiner.instructions, "no upstream call for invalid input")
		})
	}
}

func TestHandleGenerateInternalError(t *testing.T) {
	f := newFixture(t)
	f.refiner.err = errors.New("dial tcp: connection refused")

	rec, body := postGenerate(t, NewHandler(f.service), `{"idea":"anything"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
}
