package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// FetchError is returned when a page cannot be retrieved: either the transport
// failed (Err set, StatusCode 0) or the final response was not 2xx.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %d %s", e.URL, e.StatusCode, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err, or anything it wraps, is a *FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// fetchErrorLabel classifies a fetch failure for logs.
func fetchErrorLabel(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.StatusCode > 0 {
			return "status"
		}
		return "connection"
	}
	return "other"
}

// ErrInvalidURL is returned for targets that are not absolute http(s) URLs.
var ErrInvalidURL = errors.New("url must be an absolute http(s) URL")

// ValidateURL checks that raw can be audited.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return ErrInvalidURL
	}
	return nil
}
