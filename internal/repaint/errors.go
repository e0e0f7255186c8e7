package repaint

import (
	"fmt"
	"net/http"
)

// APIError is a failure reported by the Gemini API. Its Error() text is meant
// to be shown to the user as-is.
type APIError struct {
	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int
	// Status is the canonical Google status, e.g. "RESOURCE_EXHAUSTED".
	Status string
	// Message is the server-provided explanation.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage(e.HTTPStatus)
}

// Temporary reports whether retrying the same request later may succeed.
// The controller never retries; callers that add a retry policy can use this.
func (e *APIError) Temporary() bool {
	switch e.HTTPStatus {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func fallbackMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The image service rejected the request"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "API key is invalid, expired, or lacks permissions"
	case http.StatusTooManyRequests:
		return "API quota exceeded - try again later"
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "Gemini API server error - try again later"
	}
	return fmt.Sprintf("Gemini API returned status %d", status)
}

// NoImageError means the model answered without an image, typically because
// the request was blocked or the model replied with text only.
type NoImageError struct {
	Reason string
	Text   string
}

func (e *NoImageError) Error() string {
	switch {
	case e.Reason != "" && e.Text != "":
		return fmt.Sprintf("The model did not return an image (%s): %s", e.Reason, e.Text)
	case e.Reason != "":
		return fmt.Sprintf("The model did not return an image (%s)", e.Reason)
	case e.Text != "":
		return "The model did not return an image: " + e.Text
	}
	return "The model did not return an image"
}
