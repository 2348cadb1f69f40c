package collector

import (
	"errors"
	"fmt"
	"strings"
)

// MissingBranchPolicy controls how a repository without the integration branch is handled.
type MissingBranchPolicy string

const (
	// MissingBranchPolicyAbort stops the whole collection.
	MissingBranchPolicyAbort MissingBranchPolicy = "abort"
	// MissingBranchPolicySkip excludes the repository and continues.
	MissingBranchPolicySkip MissingBranchPolicy = "skip"

	unknownMissingBranchPolicyTemplateConstant = "%w: %q"
)

// ErrUnknownMissingBranchPolicy indicates an unsupported policy value.
var ErrUnknownMissingBranchPolicy = errors.New("unknown missing branch policy")

// ParseMissingBranchPolicy normalizes a configured policy. Empty input selects abort.
func ParseMissingBranchPolicy(value string) (MissingBranchPolicy, error) {
	switch MissingBranchPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", MissingBranchPolicyAbort:
		return MissingBranchPolicyAbort, nil
	case MissingBranchPolicySkip:
		return MissingBranchPolicySkip, nil
	default:
		return "", fmt.Errorf(unknownMissingBranchPolicyTemplateConstant, ErrUnknownMissingBranchPolicy, value)
	}
}
