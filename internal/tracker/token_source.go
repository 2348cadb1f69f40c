package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	pathutils "github.com/temirov/tempo/internal/utils/path"
)

const (
	tokenSourceSeparatorConstant               = ":"
	environmentTokenSourceTypeValueConstant    = "env"
	fileTokenSourceTypeValueConstant           = "file"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "token file path must be provided"
	environmentTokenMissingTemplateConstant    = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read token file %s: %w"
	fileTokenEmptyErrorTemplateConstant        = "token file %s is empty"
	unsupportedTokenSourceTemplateConstant     = "unsupported token source type %q"
)

// ErrTokenSourceMissing indicates that no token source was configured.
var ErrTokenSourceMissing = errors.New("tracker token source must be provided")

// TokenSourceType enumerates the supported token retrieval mechanisms.
type TokenSourceType string

// Token source type enumerations.
const (
	TokenSourceTypeEnvironment TokenSourceType = TokenSourceType(environmentTokenSourceTypeValueConstant)
	TokenSourceTypeFile        TokenSourceType = TokenSourceType(fileTokenSourceTypeValueConstant)
)

// TokenSource specifies where the tracker token lives.
type TokenSource struct {
	Type      TokenSourceType
	Reference string
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// TokenResolver reads tracker tokens from environment variables or files.
type TokenResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
	homeExpander      *pathutils.HomeExpander
}

// NewTokenResolver creates a token resolver; nil collaborators fall back to the os package.
// File references may start with ~.
func NewTokenResolver(environmentLookup EnvironmentLookup, fileReader FileReader) *TokenResolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &TokenResolver{environmentLookup: environmentLookup, fileReader: fileReader, homeExpander: pathutils.NewHomeExpander()}
}

// ParseTokenSource interprets declarations such as env:TEMPO_TRACKER_TOKEN or file:~/.tempo/token.
// A bare value names an environment variable.
func ParseTokenSource(sourceValue string) (TokenSource, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return TokenSource{}, ErrTokenSourceMissing
	}

	components := strings.SplitN(trimmedValue, tokenSourceSeparatorConstant, 2)
	if len(components) == 1 {
		return TokenSource{Type: TokenSourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	sourceType := strings.ToLower(strings.TrimSpace(components[0]))
	reference := strings.TrimSpace(components[1])

	switch sourceType {
	case environmentTokenSourceTypeValueConstant:
		if len(reference) == 0 {
			return TokenSource{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return TokenSource{Type: TokenSourceTypeEnvironment, Reference: reference}, nil
	case fileTokenSourceTypeValueConstant:
		if len(reference) == 0 {
			return TokenSource{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return TokenSource{Type: TokenSourceTypeFile, Reference: reference}, nil
	default:
		return TokenSource{}, fmt.Errorf(unsupportedTokenSourceTemplateConstant, sourceType)
	}
}

// ResolveToken reads the token described by source.
func (resolver *TokenResolver) ResolveToken(resolutionContext context.Context, source TokenSource) (string, error) {
	if contextError := resolutionContext.Err(); contextError != nil {
		return "", contextError
	}

	switch source.Type {
	case TokenSourceTypeEnvironment:
		value, found := resolver.environmentLookup(source.Reference)
		trimmedValue := strings.TrimSpace(value)
		if !found || len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentTokenMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case TokenSourceTypeFile:
		contents, readError := resolver.fileReader(resolver.homeExpander.Expand(source.Reference))
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileTokenEmptyErrorTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedTokenSourceTemplateConstant, source.Type)
	}
}

// Resolve prefers a token stored in the user profile and otherwise reads the configured source.
func (resolver *TokenResolver) Resolve(resolutionContext context.Context, storedToken string, sourceValue string) (string, error) {
	if trimmedStoredToken := strings.TrimSpace(storedToken); len(trimmedStoredToken) > 0 {
		return trimmedStoredToken, nil
	}
	source, parseError := ParseTokenSource(sourceValue)
	if parseError != nil {
		return "", parseError
	}
	return resolver.ResolveToken(resolutionContext, source)
}
