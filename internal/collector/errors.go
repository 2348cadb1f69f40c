package collector

import (
	"fmt"
)

const (
	repositoryAccessErrorTemplateConstant = "repository %s is not accessible: %v"
	branchNotFoundErrorTemplateConstant   = "repository %s has no local branch %s: %v"
)

// RepositoryAccessError reports a repository that could not be opened.
type RepositoryAccessError struct {
	RepositoryPath string
	Err            error
}

// Error describes the failure.
func (accessError RepositoryAccessError) Error() string {
	return fmt.Sprintf(repositoryAccessErrorTemplateConstant, accessError.RepositoryPath, accessError.Err)
}

// Unwrap exposes the underlying failure.
func (accessError RepositoryAccessError) Unwrap() error {
	return accessError.Err
}

// BranchNotFoundError reports a repository lacking the integration branch.
type BranchNotFoundError struct {
	RepositoryPath string
	BranchName     string
	Err            error
}

// Error describes the failure.
func (branchError BranchNotFoundError) Error() string {
	return fmt.Sprintf(branchNotFoundErrorTemplateConstant, branchError.RepositoryPath, branchError.BranchName, branchError.Err)
}

// Unwrap exposes the underlying failure.
func (branchError BranchNotFoundError) Unwrap() error {
	return branchError.Err
}
