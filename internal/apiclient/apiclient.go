// Package apiclient performs JSON requests against the Convivio REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/nlouis56/convivio-web/internal/errors"
)

// Requester sends JSON requests to BaseURL with HTTPClient.
type Requester struct {
	BaseURL    string
	HTTPClient *http.Client
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string // "message" (or "error") field of a JSON body, if any
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Do sends body (if any) as JSON and decodes a 2xx response into target (if
// any). Transport failures and undecodable bodies wrap ErrNetwork; non-2xx
// responses are returned as *StatusError.
func (r *Requester) Do(ctx context.Context, method, path string, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrNetwork, "%s %s: %s", method, path, err)
	}
	defer resp.Body.Close()

	return parseResponse(resp, target)
}

func parseResponse(resp *http.Response, target any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}

		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Error
			}
		}
		return statusErr
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apperrors.Wrapf(apperrors.ErrNetwork, "failed to decode response (%s)", err)
	}
	return nil
}

// AsStatus returns the *StatusError in err's chain, if any.
func AsStatus(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if apperrors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// MapStatus turns a *StatusError from Do into the matching sentinel of the
// errors package. Other errors are returned unchanged.
func MapStatus(method, path string, err error) error {
	statusErr, ok := AsStatus(err)
	if !ok {
		return err
	}

	switch statusErr.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.Wrapf(apperrors.ErrNotFound, "%s %s", method, path)
	case http.StatusConflict:
		return apperrors.Wrapf(apperrors.ErrConflict, "%s", statusErr.Message)
	case http.StatusBadRequest:
		return apperrors.NewValidation(statusErr.Message)
	default:
		return apperrors.Wrapf(apperrors.ErrNetwork, "%s %s: %s", method, path, statusErr)
	}
}
