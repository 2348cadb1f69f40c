package prompt

import (
	"github.com/mattn/go-isatty"
)

// FileDescriptor exposes the descriptor of an open file such as os.Stdin.
type FileDescriptor interface {
	Fd() uintptr
}

// IsTerminal reports whether the descriptor is attached to an interactive terminal.
func IsTerminal(file FileDescriptor) bool {
	if file == nil {
		return false
	}
	descriptor := file.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}
