package gemini

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
)

type errorBodyKey struct{}

// errorBody holds the status and raw body of the last non-2xx answer of one call
type errorBody struct {
	mu     sync.Mutex
	status int
	data   []byte
}

func (b *errorBody) set(status int, data []byte) {
	b.mu.Lock()
	b.status = status
	b.data = data
	b.mu.Unlock()
}

func (b *errorBody) get() (int, []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status, b.data
}

func withErrorBody(ctx context.Context) (context.Context, *errorBody) {
	body := &errorBody{}
	return context.WithValue(ctx, errorBodyKey{}, body), body
}

// recordingTransport copies non-2xx bodies into the errorBody carried by the
// request context, then hands the SDK an identical body to parse
type recordingTransport struct {
	base http.RoundTripper
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, err
	}

	sink, ok := req.Context().Value(errorBodyKey{}).(*errorBody)
	if !ok {
		return resp, nil
	}

	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if readErr != nil {
		return resp, nil
	}

	sink.set(resp.StatusCode, data)
	return resp, nil
}

// recordingClient - copy of base (or a default client) whose transport records error bodies
func recordingClient(base *http.Client) *http.Client {
	client := &http.Client{}
	if base != nil {
		*client = *base
	}

	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	client.Transport = &recordingTransport{base: transport}
	return client
}
