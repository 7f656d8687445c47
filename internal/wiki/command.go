package wiki

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pathutils "github.com/temirov/packtools/internal/utils/path"
)

const (
	commandUseConstant                     = "wiki"
	commandShortDescriptionConstant        = "Convert a GitHub wiki into a gemtext capsule"
	commandLongDescriptionConstant         = "wiki clones a GitHub wiki (or reads a local checkout), converts every markdown page to gemtext with a shared page list and footer, and copies other files alongside."
	commandExecutionErrorTemplateConstant  = "wiki conversion failed: %w"
	flagRepositoryNameConstant             = "repository"
	flagRepositoryDescriptionConstant      = "Wiki repository URL to clone"
	flagSourceNameConstant                 = "source"
	flagSourceDescriptionConstant          = "Existing wiki checkout to convert instead of cloning"
	flagOutputDirectoryNameConstant        = "output-directory"
	flagOutputDirectoryDescriptionConstant = "Directory that receives the gemtext files"
	convertedSummaryTemplateConstant       = "converted %d pages and copied %d files into %s"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the wiki command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for wiki conversion.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            afero.Fs
	Cloner                Cloner
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the wiki command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryDescriptionConstant)
	command.Flags().String(flagSourceNameConstant, "", flagSourceDescriptionConstant)
	command.Flags().String(flagOutputDirectoryNameConstant, "", flagOutputDirectoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options := Options{
		Repository:      configuration.Repository,
		OutputDirectory: configuration.OutputDirectory,
	}
	if command.Flags().Changed(flagRepositoryNameConstant) {
		options.Repository, _ = command.Flags().GetString(flagRepositoryNameConstant)
	}
	if command.Flags().Changed(flagOutputDirectoryNameConstant) {
		options.OutputDirectory, _ = command.Flags().GetString(flagOutputDirectoryNameConstant)
	}
	options.SourceDirectory, _ = command.Flags().GetString(flagSourceNameConstant)

	homeExpander := builder.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	options.SourceDirectory = homeExpander.Expand(options.SourceDirectory)
	options.OutputDirectory = homeExpander.Expand(options.OutputDirectory)

	fileSystem := builder.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	assembler, assemblerError := NewAssembler(fileSystem, NewConverter(), configuration.layout())
	if assemblerError != nil {
		return assemblerError
	}

	cloner := builder.Cloner
	if cloner == nil {
		cloner = NewGitCloner()
	}

	service, serviceError := NewService(fileSystem, cloner, assembler, builder.resolveLogger())
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Run(command.Context(), options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	fmt.Fprintf(command.OutOrStdout(), convertedSummaryTemplateConstant+"\n", len(result.Pages), len(result.Assets), valueOrDefault(options.OutputDirectory, DefaultOutputDirectory))
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
