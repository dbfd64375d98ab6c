package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxAttempts = 4

// Failure classes of a postal-code lookup. An address the geocoder answers
// without any postal code is not a failure: it is simply left unresolved.
var (
	ErrThrottled    = errors.New("geocoder quota exhausted")
	ErrUnauthorized = errors.New("geocoder refused the api key")
	ErrUnavailable  = errors.New("geocoder unavailable")
	ErrRejected     = errors.New("geocoder rejected the address")
)

// LookupError reports why one address could not be geocoded.
// It matches its failure class with errors.Is.
type LookupError struct {
	Address string
	Status  int
	Class   error
	Cause   error
}

func (e *LookupError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("geocode %q: %v: %v", e.Address, e.Class, e.Cause)
	}
	return fmt.Sprintf("geocode %q: %v (status %d): %v", e.Address, e.Class, e.Status, e.Cause)
}

func (e *LookupError) Unwrap() []error { return []error{e.Class, e.Cause} }

func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrThrottled
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code >= 500:
		return ErrUnavailable
	default:
		return ErrRejected
	}
}

// retryable failures may clear up on their own; the others never will.
func retryable(err error) bool {
	return errors.Is(err, ErrThrottled) || errors.Is(err, ErrUnavailable)
}

// stopsBatch reports failures every remaining lookup of a batch would hit too.
func stopsBatch(err error) bool {
	return errors.Is(err, ErrThrottled) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

type geocodeResponse struct {
	Features []struct {
		Properties struct {
			PostalCode string `json:"postalcode"`
		} `json:"properties"`
	} `json:"features"`
}

// lookup resolves one normalized address, retrying throttled or unavailable
// answers with exponential backoff. It returns "" when no feature carries a
// postal code.
func (o *ORSPostalCodeResolver) lookup(ctx context.Context, address string) (string, error) {
	backoff := o.backoff

	for attempt := 1; ; attempt++ {
		code, err := o.search(ctx, address)
		if err == nil || !retryable(err) || attempt == maxAttempts {
			return code, err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", fmt.Errorf("geocode %q: %w", address, ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
	}
}

// search issues one GET /geocode/search and reads the first postal code.
func (o *ORSPostalCodeResolver) search(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return "", fmt.Errorf("geocode %q: create request: %w", address, err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("text", address)
	q.Set("boundary.country", o.country)
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := o.session.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("geocode %q: %w", address, ctx.Err())
		}
		return "", &LookupError{Address: address, Class: ErrUnavailable, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &LookupError{
			Address: address,
			Status:  resp.StatusCode,
			Class:   classifyStatus(resp.StatusCode),
			Cause:   errors.New(strings.TrimSpace(string(b))),
		}
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &LookupError{Address: address, Status: resp.StatusCode, Class: ErrUnavailable, Cause: fmt.Errorf("decode response: %w", err)}
	}

	for _, f := range decoded.Features {
		if code := strings.TrimSpace(f.Properties.PostalCode); code != "" {
			return code, nil
		}
	}
	return "", nil
}
