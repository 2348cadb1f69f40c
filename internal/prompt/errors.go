package prompt

import (
	"errors"

	"github.com/charmbracelet/huh"
)

var (
	// ErrAborted indicates that the user dismissed a prompt.
	ErrAborted = errors.New("prompt aborted by user")
	// ErrNotInteractive indicates that a prompt was required but no terminal is attached.
	ErrNotInteractive = errors.New("interactive input is not available")
)

func translateFormError(formError error) error {
	if formError == nil {
		return nil
	}
	if errors.Is(formError, huh.ErrUserAborted) {
		return ErrAborted
	}
	return formError
}
