package pathutils

import (
	"path/filepath"
	"runtime"
	"strings"
)

const (
	windowsOperatingSystemConstant = "windows"
)

// RepositoryPathSanitizer normalizes repository paths before they are stored or compared.
type RepositoryPathSanitizer struct {
	homeExpander *HomeExpander
}

// NewRepositoryPathSanitizer constructs a sanitizer. A nil expander uses the operating system home directory.
func NewRepositoryPathSanitizer(homeExpander *HomeExpander) *RepositoryPathSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RepositoryPathSanitizer{homeExpander: homeExpander}
}

// Sanitize trims, expands, and absolutizes candidate paths, dropping blanks and duplicates.
// The first occurrence of each path wins and input order is preserved.
func (sanitizer *RepositoryPathSanitizer) Sanitize(candidatePaths []string) []string {
	sanitizedPaths := make([]string, 0, len(candidatePaths))
	seenPaths := make(map[string]struct{}, len(candidatePaths))

	for _, candidatePath := range candidatePaths {
		if len(strings.TrimSpace(candidatePath)) == 0 {
			continue
		}
		absolutePath, absoluteError := sanitizer.homeExpander.ExpandAbsolute(candidatePath)
		if absoluteError != nil {
			continue
		}
		comparison := ComparisonKey(absolutePath)
		if _, seen := seenPaths[comparison]; seen {
			continue
		}
		seenPaths[comparison] = struct{}{}
		sanitizedPaths = append(sanitizedPaths, absolutePath)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}
	return sanitizedPaths
}

// ComparisonKey returns the form of a path used for equality checks on this platform.
func ComparisonKey(path string) string {
	comparison := filepath.Clean(path)
	if runtime.GOOS == windowsOperatingSystemConstant {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}
