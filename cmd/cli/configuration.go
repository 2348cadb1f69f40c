package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/tempo/internal/collector"
	"github.com/temirov/tempo/internal/tracker"
	pathutils "github.com/temirov/tempo/internal/utils/path"
)

const (
	localTimezoneNameConstant        = "local"
	colorModeAutoConstant            = "auto"
	colorModeAlwaysConstant          = "always"
	colorModeNeverConstant           = "never"
	timezoneLoadErrorTemplate        = "unable to load timezone %q: %w"
	storagePathErrorTemplateConstant = "unable to resolve %s %q: %w"
	profilePathLabelConstant         = "profile path"
	ledgerPathLabelConstant          = "ledger path"
	unsupportedColorModeTemplate     = "%w: %q (expected one of %s)"
)

//go:embed default_config.yaml
var embeddedDefaultConfiguration []byte

// ErrStoragePathRequired indicates an empty storage path in the configuration.
var ErrStoragePathRequired = errors.New("storage path must be provided")

// ErrUnsupportedColorMode indicates a common.color value other than auto, always or never.
var ErrUnsupportedColorMode = errors.New("unsupported color mode")

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration `mapstructure:"common"`
	Tracker tracker.Configuration          `mapstructure:"tracker"`
	Worklog WorklogConfiguration           `mapstructure:"worklog"`
	Storage StorageConfiguration           `mapstructure:"storage"`
}

// ApplicationCommonConfiguration stores logging and console settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Color     string `mapstructure:"color"`
}

// WorklogConfiguration controls how commit history becomes worklogs.
type WorklogConfiguration struct {
	IntegrationBranch   string `mapstructure:"integration_branch"`
	MissingBranchPolicy string `mapstructure:"missing_branch_policy"`
	Timezone            string `mapstructure:"timezone"`
}

// StorageConfiguration locates the profile and the published-worklog ledger.
type StorageConfiguration struct {
	ProfilePath string `mapstructure:"profile_path"`
	LedgerPath  string `mapstructure:"ledger_path"`
}

// Location resolves the configured timezone. Empty and "Local" select the system zone.
func (configuration WorklogConfiguration) Location() (*time.Location, error) {
	timezone := strings.TrimSpace(configuration.Timezone)
	if len(timezone) == 0 || strings.EqualFold(timezone, localTimezoneNameConstant) {
		return time.Local, nil
	}
	location, loadError := time.LoadLocation(timezone)
	if loadError != nil {
		return nil, fmt.Errorf(timezoneLoadErrorTemplate, timezone, loadError)
	}
	return location, nil
}

// CollectorOptions translates the configuration into collector options.
func (configuration WorklogConfiguration) CollectorOptions() (collector.Options, error) {
	policy, policyError := collector.ParseMissingBranchPolicy(configuration.MissingBranchPolicy)
	if policyError != nil {
		return collector.Options{}, policyError
	}
	return collector.Options{
		IntegrationBranch:   strings.TrimSpace(configuration.IntegrationBranch),
		MissingBranchPolicy: policy,
	}, nil
}

// Resolve expands ~ and absolutizes both storage paths.
func (configuration StorageConfiguration) Resolve(expander *pathutils.HomeExpander) (StorageConfiguration, error) {
	profilePath, profileError := resolveStoragePath(expander, profilePathLabelConstant, configuration.ProfilePath)
	if profileError != nil {
		return StorageConfiguration{}, profileError
	}
	ledgerPath, ledgerError := resolveStoragePath(expander, ledgerPathLabelConstant, configuration.LedgerPath)
	if ledgerError != nil {
		return StorageConfiguration{}, ledgerError
	}
	return StorageConfiguration{ProfilePath: profilePath, LedgerPath: ledgerPath}, nil
}

func resolveStoragePath(expander *pathutils.HomeExpander, label string, candidatePath string) (string, error) {
	if len(strings.TrimSpace(candidatePath)) == 0 {
		return "", fmt.Errorf(storagePathErrorTemplateConstant, label, candidatePath, ErrStoragePathRequired)
	}
	resolvedPath, resolveError := expander.ExpandAbsolute(candidatePath)
	if resolveError != nil {
		return "", fmt.Errorf(storagePathErrorTemplateConstant, label, candidatePath, resolveError)
	}
	return resolvedPath, nil
}

// colorEnabled decides whether console output is colored. Auto colors terminals only.
func colorEnabled(mode string, outputIsTerminal bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", colorModeAutoConstant:
		return outputIsTerminal, nil
	case colorModeAlwaysConstant:
		return true, nil
	case colorModeNeverConstant:
		return false, nil
	default:
		return false, fmt.Errorf(unsupportedColorModeTemplate, ErrUnsupportedColorMode, mode, strings.Join(colorModes(), ", "))
	}
}

func colorModes() []string {
	return []string{colorModeAutoConstant, colorModeAlwaysConstant, colorModeNeverConstant}
}
