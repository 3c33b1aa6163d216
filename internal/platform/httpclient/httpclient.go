package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 4 << 10
)

// Client envuelve *http.Client con helpers comunes para adapters.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	return NewWithTransport(timeout, nil)
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d url=%s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("http error: status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
}

// Fetch hace un GET y devuelve el body sin leer. El caller cierra el reader.
// Respuestas no-2xx vuelven como *HTTPError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	if c == nil || c.HTTP == nil {
		return nil, "", errors.New("httpclient: nil client")
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", fmt.Errorf("httpclient: invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("httpclient: new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("httpclient: do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := readAtMost(resp.Body, maxErrorBody)
		return nil, "", &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        u.Redacted(),
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = 1 << 20
	}
	lr := io.LimitReader(r, max)
	return io.ReadAll(lr)
}
