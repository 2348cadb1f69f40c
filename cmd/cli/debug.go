package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tempo/internal/utils"
)

const (
	debugCommandUseConstant              = "debug"
	debugCommandShortDescriptionConstant = "Print the resolved configuration"
	debugConfigFileTemplateConstant      = "# configuration file: %s\n"
	debugStorageTemplateConstant         = "# profile: %s\n# ledger: %s\n"
	debugEmbeddedConfigFileConstant      = "embedded defaults"
	debugEncodeErrorTemplateConstant     = "unable to render configuration: %w"
)

type debugCommandBuilder struct {
	runtimeProvider  runtimeProvider
	metadataProvider func() utils.LoadedConfiguration
}

// Build constructs the debug command.
func (builder *debugCommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   debugCommandUseConstant,
		Short: debugCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
}

func (builder *debugCommandBuilder) run(command *cobra.Command, arguments []string) error {
	runtime, runtimeError := builder.runtimeProvider()
	if runtimeError != nil {
		return runtimeError
	}
	metadata := builder.metadataProvider()

	configurationFile := metadata.ConfigFileUsed
	if len(configurationFile) == 0 {
		configurationFile = debugEmbeddedConfigFileConstant
	}

	encoded, encodeError := yaml.Marshal(metadata.Settings)
	if encodeError != nil {
		return fmt.Errorf(debugEncodeErrorTemplateConstant, encodeError)
	}

	output := command.OutOrStdout()
	fmt.Fprintf(output, debugConfigFileTemplateConstant, configurationFile)
	fmt.Fprintf(output, debugStorageTemplateConstant, runtime.storage.ProfilePath, runtime.storage.LedgerPath)
	_, writeError := output.Write(encoded)
	return writeError
}
