package vinted

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PageSource retrieves the raw markup of one catalog page.
type PageSource interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// HTTPSource fetches pages with a plain GET. It never retries.
type HTTPSource struct {
	client *resty.Client
}

// NewHTTPSource creates an HTTPSource with a per-request timeout and a fixed User-Agent.
func NewHTTPSource(timeout time.Duration, userAgent string) *HTTPSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)
	return &HTTPSource{client: client}
}

// Fetch returns the response body. Non-2xx answers are errors.
func (s *HTTPSource) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("vinted: GET %s: %w", pageURL, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: pageURL, Code: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// StatusError reports a non-2xx catalog response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vinted: GET %s: unexpected status %d", e.URL, e.Code)
}
