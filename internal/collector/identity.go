package collector

import (
	"strings"
)

// Identity describes the author whose commits are collected.
type Identity struct {
	Email   string
	Aliases []string
}

// Matches reports whether the commit author belongs to the identity.
// Matching is case-insensitive substring containment against the author email and name.
func (identity Identity) Matches(authorName string, authorEmail string) bool {
	normalizedName := strings.ToLower(authorName)
	normalizedEmail := strings.ToLower(authorEmail)

	for _, candidate := range identity.candidates() {
		if strings.Contains(normalizedEmail, candidate) || strings.Contains(normalizedName, candidate) {
			return true
		}
	}
	return false
}

func (identity Identity) candidates() []string {
	candidates := make([]string, 0, len(identity.Aliases)+1)
	for _, value := range append([]string{identity.Email}, identity.Aliases...) {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if len(normalized) == 0 {
			continue
		}
		candidates = append(candidates, normalized)
	}
	return candidates
}
