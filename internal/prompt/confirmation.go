package prompt

import (
	"bufio"
	"context"
	"io"
	"strings"
)

const (
	affirmativeShortResponseConstant = "y"
	affirmativeLongResponseConstant  = "yes"
	confirmationSuffixConstant       = " [y/N]: "
)

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the question and interprets affirmative responses (y/yes). End of input declines.
func (prompter *IOConfirmationPrompter) Confirm(confirmationContext context.Context, question string) (bool, error) {
	if contextError := confirmationContext.Err(); contextError != nil {
		return false, contextError
	}

	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, question+confirmationSuffixConstant); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && readError != io.EOF {
		return false, readError
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}
