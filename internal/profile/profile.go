package profile

import (
	"strings"

	pathutils "github.com/temirov/tempo/internal/utils/path"
)

const (
	redactedTokenConstant       = "********"
	redactedVisibleSuffixLength = 4
)

// Profile is the persisted user configuration.
type Profile struct {
	Name         string   `yaml:"name,omitempty"`
	TrackerToken string   `yaml:"tracker_token,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty"`
	Repositories []string `yaml:"repositories,omitempty"`
}

// Sanitize trims values and drops blank or duplicate aliases and repositories.
func (profile Profile) Sanitize() Profile {
	sanitized := Profile{
		Name:         strings.TrimSpace(profile.Name),
		TrackerToken: strings.TrimSpace(profile.TrackerToken),
	}
	for _, alias := range profile.Aliases {
		sanitized.AddAlias(alias)
	}
	for _, repositoryPath := range profile.Repositories {
		sanitized.AddRepository(repositoryPath)
	}
	return sanitized
}

// AddAlias appends an alias unless it is blank or already present ignoring case.
func (profile *Profile) AddAlias(alias string) bool {
	trimmedAlias := strings.TrimSpace(alias)
	if len(trimmedAlias) == 0 || profile.HasAlias(trimmedAlias) {
		return false
	}
	profile.Aliases = append(profile.Aliases, trimmedAlias)
	return true
}

// HasAlias reports whether the alias is configured, ignoring case.
func (profile Profile) HasAlias(alias string) bool {
	trimmedAlias := strings.TrimSpace(alias)
	for _, existingAlias := range profile.Aliases {
		if strings.EqualFold(existingAlias, trimmedAlias) {
			return true
		}
	}
	return false
}

// RemoveAliases deletes the named aliases and returns how many were removed.
func (profile *Profile) RemoveAliases(aliases []string) int {
	retainedAliases := profile.Aliases[:0]
	removedCount := 0
	for _, existingAlias := range profile.Aliases {
		if containsFold(aliases, existingAlias) {
			removedCount++
			continue
		}
		retainedAliases = append(retainedAliases, existingAlias)
	}
	profile.Aliases = retainedAliases
	return removedCount
}

// AddRepository appends a repository path unless it is blank or already tracked.
// Callers pass absolute paths; comparison is platform aware.
func (profile *Profile) AddRepository(repositoryPath string) bool {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 || profile.HasRepository(trimmedPath) {
		return false
	}
	profile.Repositories = append(profile.Repositories, trimmedPath)
	return true
}

// HasRepository reports whether the repository path is tracked.
func (profile Profile) HasRepository(repositoryPath string) bool {
	comparison := pathutils.ComparisonKey(strings.TrimSpace(repositoryPath))
	for _, existingPath := range profile.Repositories {
		if pathutils.ComparisonKey(existingPath) == comparison {
			return true
		}
	}
	return false
}

// RemoveRepositories untracks the provided paths and returns those that were removed.
func (profile *Profile) RemoveRepositories(repositoryPaths []string) []string {
	comparisons := make(map[string]struct{}, len(repositoryPaths))
	for _, repositoryPath := range repositoryPaths {
		comparisons[pathutils.ComparisonKey(strings.TrimSpace(repositoryPath))] = struct{}{}
	}

	retainedPaths := make([]string, 0, len(profile.Repositories))
	var removedPaths []string
	for _, existingPath := range profile.Repositories {
		if _, matched := comparisons[pathutils.ComparisonKey(existingPath)]; matched {
			removedPaths = append(removedPaths, existingPath)
			continue
		}
		retainedPaths = append(retainedPaths, existingPath)
	}
	profile.Repositories = retainedPaths
	return removedPaths
}

// HasTrackerToken reports whether a tracker token is stored.
func (profile Profile) HasTrackerToken() bool {
	return len(strings.TrimSpace(profile.TrackerToken)) > 0
}

// Redacted returns a copy safe for display, masking all but the last characters of the token.
func (profile Profile) Redacted() Profile {
	redacted := profile
	redacted.Aliases = append([]string(nil), profile.Aliases...)
	redacted.Repositories = append([]string(nil), profile.Repositories...)
	if !profile.HasTrackerToken() {
		return redacted
	}
	token := strings.TrimSpace(profile.TrackerToken)
	if len(token) <= redactedVisibleSuffixLength {
		redacted.TrackerToken = redactedTokenConstant
		return redacted
	}
	redacted.TrackerToken = redactedTokenConstant + token[len(token)-redactedVisibleSuffixLength:]
	return redacted
}

func containsFold(values []string, candidate string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), candidate) {
			return true
		}
	}
	return false
}
