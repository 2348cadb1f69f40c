package collector

import (
	"strings"
)

const (
	ticketDelimiterConstant = ":"
)

// ParseMessage splits a commit message into a ticket id and a comment at the first colon.
// Messages without a colon or with an empty ticket id are rejected.
func ParseMessage(message string) (string, string, bool) {
	delimiterIndex := strings.Index(message, ticketDelimiterConstant)
	if delimiterIndex < 0 {
		return "", "", false
	}

	ticketID := strings.TrimSpace(message[:delimiterIndex])
	if len(ticketID) == 0 {
		return "", "", false
	}

	comment := strings.TrimSpace(message[delimiterIndex+len(ticketDelimiterConstant):])
	return ticketID, comment, true
}
