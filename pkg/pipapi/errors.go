package pipapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError represents an error response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, msg)
}

// IsNotFound returns true if the error is a 404 Not Found. The backend
// answers 404 for an unknown account name.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// errorResponse is the FastAPI error body.
type errorResponse struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
}

// CheckResponse returns an *APIError for any non-2xx response, reading the
// error detail from the body when there is one.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return apiErr
	}

	switch d := errResp.Detail.(type) {
	case string:
		apiErr.Message = d
	case nil:
		apiErr.Message = errResp.Message
	default:
		// validation errors come as a list of objects
		if raw, err := json.Marshal(d); err == nil {
			apiErr.Message = string(raw)
		}
	}

	return apiErr
}

// DecodeJSON decodes a JSON response body into the given target.
func DecodeJSON(resp *http.Response, target any) error {
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchError is the single failure condition of a resource fetch.
type FetchError struct {
	Path    string
	Message string
	Err     error
}

func newFetchError(path string, err error) *FetchError {
	return &FetchError{
		Path:    path,
		Message: fmt.Sprintf("failed to fetch %s: %v", path, err),
		Err:     err,
	}
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport, status or decode error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchFailed reports whether err is, or wraps, a *FetchError.
func IsFetchFailed(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
