package cli

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/execshell"
	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/profile"
	"github.com/temirov/tempo/internal/prompt"
	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/tracker"
	"github.com/temirov/tempo/internal/ui"
)

const (
	ledgerCloseFailedMessageConstant = "Unable to close worklog ledger"
)

// Streams bundles the standard streams a command reads from and writes to.
type Streams struct {
	Input       io.Reader
	Output      io.Writer
	ErrorOutput io.Writer
}

// commandRuntime carries the resolved configuration and collaborators shared by subcommands.
type commandRuntime struct {
	configuration ApplicationConfiguration
	storage       StorageConfiguration
	location      *time.Location
	palette       ui.Palette
	logger        *zap.Logger
	streams       Streams
	interactive   bool
	clock         func() time.Time
	httpClient    tracker.HTTPClient
	tokenResolver *tracker.TokenResolver
	commandRunner execshell.CommandRunner
}

type runtimeProvider func() (commandRuntime, error)

func openProfileStore(provider runtimeProvider) (commandRuntime, *profile.Store, error) {
	runtime, runtimeError := provider()
	if runtimeError != nil {
		return commandRuntime{}, nil, runtimeError
	}
	store, storeError := runtime.profileStore()
	if storeError != nil {
		return commandRuntime{}, nil, storeError
	}
	return runtime, store, nil
}

func (runtime commandRuntime) selector() publish.Selector {
	if !runtime.interactive {
		return nil
	}
	return prompt.NewFormSelector(runtime.streams.Input, runtime.streams.Output)
}

func (runtime commandRuntime) valueSelector() *prompt.FormSelector {
	if !runtime.interactive {
		return nil
	}
	return prompt.NewFormSelector(runtime.streams.Input, runtime.streams.Output)
}

func (runtime commandRuntime) confirmer() publish.Confirmer {
	if runtime.interactive {
		return prompt.NewFormSelector(runtime.streams.Input, runtime.streams.Output)
	}
	return prompt.NewIOConfirmationPrompter(runtime.streams.Input, runtime.streams.Output)
}

func (runtime commandRuntime) profileStore() (*profile.Store, error) {
	return profile.NewStore(runtime.storage.ProfilePath)
}

func (runtime commandRuntime) openLedger() (*ledger.Ledger, error) {
	return ledger.Open(runtime.storage.LedgerPath)
}

func (runtime commandRuntime) stepReporter(total int) *ui.StepReporter {
	return ui.NewStepReporter(runtime.streams.Output, runtime.palette, total)
}

func (runtime commandRuntime) shellExecutor() (*execshell.ShellExecutor, error) {
	commandRunner := runtime.commandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	return execshell.NewShellExecutor(
		runtime.logger,
		commandRunner,
		execshell.WithCommandEventObserver(ui.NewCommandReporter(runtime.streams.Output, runtime.palette)),
	)
}

func (runtime commandRuntime) trackerClient(executionContext context.Context, userProfile profile.Profile) (*tracker.Client, error) {
	tokenResolver := runtime.tokenResolver
	if tokenResolver == nil {
		tokenResolver = tracker.NewTokenResolver(nil, nil)
	}
	token, tokenError := tokenResolver.Resolve(executionContext, userProfile.TrackerToken, runtime.configuration.Tracker.TokenSource)
	if tokenError != nil {
		return nil, tokenError
	}
	return tracker.NewClient(runtime.configuration.Tracker, token, runtime.httpClient)
}

func (runtime commandRuntime) submitterFactory() publish.SubmitterFactory {
	return func(executionContext context.Context, userProfile profile.Profile) (publish.WorklogSubmitter, error) {
		client, clientError := runtime.trackerClient(executionContext, userProfile)
		if clientError != nil {
			return nil, clientError
		}
		return client, nil
	}
}

func (runtime commandRuntime) removerFactory() publish.RemoverFactory {
	return func(executionContext context.Context, userProfile profile.Profile) (publish.WorklogRemover, error) {
		client, clientError := runtime.trackerClient(executionContext, userProfile)
		if clientError != nil {
			return nil, clientError
		}
		return client, nil
	}
}
