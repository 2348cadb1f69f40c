// Package identity resolves the primary author email of the current user.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/tempo/internal/execshell"
)

const (
	gitConfigSubcommandConstant     = "config"
	gitGlobalScopeFlagConstant      = "--global"
	gitUserEmailKeyConstant         = "user.email"
	resolutionErrorTemplateConstant = "resolve git identity: %v"
)

// ErrIdentityUnresolved indicates that no primary author email is configured.
var ErrIdentityUnresolved = errors.New("git user.email is not configured globally")

// ErrGitExecutorNotConfigured indicates that the resolver lacks a git executor.
var ErrGitExecutorNotConfigured = errors.New("git executor not configured")

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ResolutionError wraps the reason the identity could not be determined.
type ResolutionError struct {
	Cause error
}

// Error describes the failure.
func (resolutionError ResolutionError) Error() string {
	return fmt.Sprintf(resolutionErrorTemplateConstant, resolutionError.Cause)
}

// Unwrap exposes ErrIdentityUnresolved alongside the underlying cause.
func (resolutionError ResolutionError) Unwrap() []error {
	return []error{ErrIdentityUnresolved, resolutionError.Cause}
}

// Resolver reads the primary email from the global git configuration.
type Resolver struct {
	executor GitExecutor
}

// NewResolver constructs a Resolver.
func NewResolver(executor GitExecutor) (*Resolver, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Resolver{executor: executor}, nil
}

// PrimaryEmail returns the globally configured git user.email.
func (resolver *Resolver) PrimaryEmail(executionContext context.Context) (string, error) {
	result, executionError := resolver.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitConfigSubcommandConstant, gitGlobalScopeFlagConstant, gitUserEmailKeyConstant},
	})
	if executionError != nil {
		return "", ResolutionError{Cause: executionError}
	}

	email := strings.TrimSpace(result.StandardOutput)
	if len(email) == 0 {
		return "", ResolutionError{Cause: ErrIdentityUnresolved}
	}
	return email, nil
}
