package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/execshell"
	"github.com/temirov/tempo/internal/prompt"
	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/tracker"
	"github.com/temirov/tempo/internal/ui"
	"github.com/temirov/tempo/internal/utils"
	"github.com/temirov/tempo/internal/utils/flags"
	pathutils "github.com/temirov/tempo/internal/utils/path"
)

const (
	applicationNameConstant                 = "tempo"
	applicationShortDescriptionConstant     = "Turn git commit history into monthly tracker worklogs"
	applicationLongDescriptionConstant      = "tempo walks the integration branch of every tracked repository, groups your ticket commits and spreads a month of working days across them before publishing the result as tracker worklogs."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	environmentPrefixConstant               = "TEMPO"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	runtimeErrorTemplateConstant            = "unable to prepare command: %w"
	canceledMessageConstant                 = "Canceled"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryConstant      = "~/.tempo"
	defaultLogLevelConstant                 = "warn"
	defaultLogFormatConstant                = "console"
)

// ApplicationOption customizes an Application, mainly for tests.
type ApplicationOption func(*Application)

// WithClock overrides the wall clock used to resolve default periods.
func WithClock(clock func() time.Time) ApplicationOption {
	return func(application *Application) {
		if clock != nil {
			application.clock = clock
		}
	}
}

// WithHTTPClient overrides the HTTP client used for tracker calls.
func WithHTTPClient(httpClient tracker.HTTPClient) ApplicationOption {
	return func(application *Application) {
		application.httpClient = httpClient
	}
}

// WithCommandRunner overrides how git commands are executed.
func WithCommandRunner(commandRunner execshell.CommandRunner) ApplicationOption {
	return func(application *Application) {
		application.commandRunner = commandRunner
	}
}

// WithTokenResolver overrides how tracker tokens are read from their source.
func WithTokenResolver(tokenResolver *tracker.TokenResolver) ApplicationOption {
	return func(application *Application) {
		application.tokenResolver = tokenResolver
	}
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     *flags.ChoiceValue
	logFormatFlagValue    *flags.ChoiceValue
	homeExpander          *pathutils.HomeExpander
	streams               Streams
	clock                 func() time.Time
	httpClient            tracker.HTTPClient
	tokenResolver         *tracker.TokenResolver
	commandRunner         execshell.CommandRunner
}

// NewApplication assembles a CLI application bound to the process standard streams.
func NewApplication(options ...ApplicationOption) *Application {
	return NewApplicationWithStreams(Streams{Input: os.Stdin, Output: os.Stdout, ErrorOutput: os.Stderr}, options...)
}

// NewApplicationWithStreams assembles a fully wired CLI application instance.
func NewApplicationWithStreams(streams Streams, options ...ApplicationOption) *Application {
	homeExpander := pathutils.NewHomeExpander()
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, homeExpander.Expand(userConfigurationDirectoryConstant)},
	)
	configurationLoader.SetEmbeddedConfiguration(embeddedDefaultConfiguration, configurationTypeConstant)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactoryWithOutput(streams.ErrorOutput),
		logger:              zap.NewNop(),
		logLevelFlagValue:   flags.NewChoiceValue(defaultLogLevelConstant, utils.SupportedLogLevels()),
		logFormatFlagValue:  flags.NewChoiceValue(defaultLogFormatConstant, utils.SupportedLogFormats()),
		homeExpander:        homeExpander,
		streams:             streams,
		clock:               time.Now,
	}
	for _, option := range options {
		option(application)
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetIn(streams.Input)
	cobraCommand.SetOut(streams.Output)
	cobraCommand.SetErr(streams.ErrorOutput)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().Var(application.logLevelFlagValue, logLevelFlagNameConstant, flags.FormatChoiceUsage(defaultLogLevelConstant, utils.SupportedLogLevels(), logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().Var(application.logFormatFlagValue, logFormatFlagNameConstant, flags.FormatChoiceUsage(defaultLogFormatConstant, utils.SupportedLogFormats(), logFormatFlagUsageConstant))

	provider := application.runtime
	metadataProvider := func() utils.LoadedConfiguration {
		return application.configurationMetadata
	}
	cobraCommand.AddCommand(
		(&publishCommandBuilder{runtimeProvider: provider}).Build(),
		(&deleteCommandBuilder{runtimeProvider: provider}).Build(),
		(&configureCommandBuilder{runtimeProvider: provider}).Build(),
		(&repoCommandBuilder{runtimeProvider: provider}).Build(),
		(&debugCommandBuilder{runtimeProvider: provider, metadataProvider: metadataProvider}).Build(),
	)

	application.rootCommand = cobraCommand

	return application
}

// SetArguments replaces the arguments parsed by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}

// Execute runs the command hierarchy with a background context.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the configured Cobra command hierarchy and ensures logger flushing.
// A run canceled from a prompt prints a short notice and is not reported as a failure.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if errors.Is(executionError, publish.ErrUserCancelled) {
		fmt.Fprintln(application.streams.ErrorOutput, canceledMessageConstant)
		executionError = nil
	}
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute(executionContext context.Context) error {
	return NewApplication().ExecuteContext(executionContext)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue.String()
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue.String()
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.NormalizeLogLevel(application.configuration.Common.LogLevel),
		utils.NormalizeLogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

// runtime resolves the collaborators a subcommand needs from the loaded configuration.
func (application *Application) runtime() (commandRuntime, error) {
	location, locationError := application.configuration.Worklog.Location()
	if locationError != nil {
		return commandRuntime{}, fmt.Errorf(runtimeErrorTemplateConstant, locationError)
	}

	storage, storageError := application.configuration.Storage.Resolve(application.homeExpander)
	if storageError != nil {
		return commandRuntime{}, fmt.Errorf(runtimeErrorTemplateConstant, storageError)
	}

	outputIsTerminal := false
	if descriptor, isFile := application.streams.Output.(prompt.FileDescriptor); isFile {
		outputIsTerminal = prompt.IsTerminal(descriptor)
	}
	inputIsTerminal := false
	if descriptor, isFile := application.streams.Input.(prompt.FileDescriptor); isFile {
		inputIsTerminal = prompt.IsTerminal(descriptor)
	}

	colored, colorError := colorEnabled(application.configuration.Common.Color, outputIsTerminal)
	if colorError != nil {
		return commandRuntime{}, fmt.Errorf(runtimeErrorTemplateConstant, colorError)
	}

	return commandRuntime{
		configuration: application.configuration,
		storage:       storage,
		location:      location,
		palette:       ui.NewPalette(colored),
		logger:        application.logger,
		streams:       application.streams,
		interactive:   inputIsTerminal && outputIsTerminal,
		clock:         application.clock,
		httpClient:    application.httpClient,
		tokenResolver: application.tokenResolver,
		commandRunner: application.commandRunner,
	}, nil
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	if flag := command.Flags().Lookup(flagName); flag != nil {
		return flag.Changed
	}

	if flag := command.PersistentFlags().Lookup(flagName); flag != nil {
		return flag.Changed
	}

	if flag := command.InheritedFlags().Lookup(flagName); flag != nil {
		return flag.Changed
	}

	return false
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}
