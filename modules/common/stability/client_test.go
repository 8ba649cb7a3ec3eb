package stability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImageSendsMultipartForm(t *testing.T) {
	var (
		gotPath, gotAuth, gotAccept string
		gotPrompt, gotFormat        string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotPrompt = r.FormValue("prompt")
			gotFormat = r.FormValue("output_format")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"image":"aGVsbG8=","finish_reason":"SUCCESS","seed":42}`)
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL+"/", srv.Client())
	result, err := client.GenerateImage(context.Background(), "a cat on a skateboard")
	require.NoError(t, err)

	assert.Equal(t, "/v2beta/stable-image/generate/core", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "a cat on a skateboard", gotPrompt)
	assert.Equal(t, "png", gotFormat)

	assert.Equal(t, "aGVsbG8=", result.ImageBase64)
	assert.Equal(t, "SUCCESS", result.FinishReason)
	assert.Equal(t, int64(42), result.Seed)
}

func TestGenerateImageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"name":"bad_request","errors":["prompt: is required"]}`)
	}))
	defer srv.Close()

	_, err := NewClient("secret", srv.URL, srv.Client()).GenerateImage(context.Background(), "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, `{"name":"bad_request","errors":["prompt: is required"]}`, apiErr.Body)
}

func TestGenerateImageMissingImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"finish_reason":"CONTENT_FILTERED"}`)
	}))
	defer srv.Close()

	_, err := NewClient("secret", srv.URL, srv.Client()).GenerateImage(context.Background(), "p")

	var missing *MissingImageError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "CONTENT_FILTERED", missing.Body["finish_reason"])
}

func TestGenerateImageUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := NewClient("secret", srv.URL, srv.Client()).GenerateImage(context.Background(), "p")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	var missing *MissingImageError
	assert.False(t, errors.As(err, &missing))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("k", "", nil)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, http.DefaultClient, client.httpClient)
}
