package session

import (
	"errors"
	"strings"
)

// errEmptyResult stands in for a Repainter that returned neither an image nor an error.
var errEmptyResult = errors.New(GenericErrorMessage)

// errorMessage converts a repaint failure into the text shown to the user.
func errorMessage(err error) string {
	if err == nil {
		return GenericErrorMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
