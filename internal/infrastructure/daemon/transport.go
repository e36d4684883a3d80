package daemon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// transport issues one HTTP request per call. It separates transport-level
// failure (ErrDaemonUnavailable) from application-level failure
// (StatusError); the per-call timeout lives on the http.Client, so the
// fallback probe gets its own full window.
type transport struct {
	httpClient *http.Client
}

func newTransport(client *http.Client) *transport {
	if client == nil {
		client = &http.Client{Timeout: domain.DefaultRequestTimeout}
	}
	return &transport{httpClient: client}
}

func (t *transport) send(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDaemonUnavailable, err)
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDaemonUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.StatusError{Code: resp.StatusCode}
	}
	return data, nil
}
