package sources

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/packtools/internal/execshell"
	"github.com/temirov/packtools/internal/gitrepo"
	"github.com/temirov/packtools/internal/ui"
	flagutils "github.com/temirov/packtools/internal/utils/flags"
	pathutils "github.com/temirov/packtools/internal/utils/path"
)

const (
	commandUseConstant                        = "sources <build_dir>"
	commandShortDescriptionConstant           = "Write a pinned git source manifest for a build directory"
	commandLongDescriptionConstant            = "sources walks <build_dir>/src/<domain>/<owner>[/<repository>], records the origin URL and HEAD commit of every git checkout, and writes them as a JSON array of git sources."
	commandExecutionErrorTemplateConstant     = "source manifest generation failed: %w"
	argumentCountErrorTemplateConstant        = "sources accepts exactly one build directory argument, received %d"
	flagOutputNameConstant                    = "output"
	flagOutputShorthandConstant               = "o"
	flagOutputDescriptionConstant             = "File to write the source list to (default <build_dir name>-sources.json)"
	flagRemoteNameConstant                    = "remote"
	flagRemoteDescriptionConstant             = "Remote whose fetch URL is recorded"
	flagBackendNameConstant                   = "backend"
	flagBackendDescriptionConstant            = "How checkouts are inspected: the git binary or the embedded go-git reader"
	flagIgnoreNonCheckoutsNameConstant        = "ignore-non-checkout-directories"
	flagIgnoreNonCheckoutsDescriptionConstant = "Skip directories under an owner that are not checkouts instead of failing"
	expectedArgumentCountConstant             = 1
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the sources command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for source manifest generation.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	FileSystem                   afero.Fs
	GitExecutor                  gitrepo.GitExecutor
	RepositoryInspector          gitrepo.RepositoryInspector
	HomeExpander                 *pathutils.HomeExpander

	backendFlagValue            string
	ignoreNonCheckoutsFlagValue bool
}

// Build constructs the sources command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  builder.validateArguments,
		RunE:  builder.run,
	}

	command.Flags().StringP(flagOutputNameConstant, flagOutputShorthandConstant, "", flagOutputDescriptionConstant)
	command.Flags().String(flagRemoteNameConstant, DefaultRemoteName, flagRemoteDescriptionConstant)
	flagutils.AddChoiceFlag(command.Flags(), &builder.backendFlagValue, flagBackendNameConstant, gitrepo.BackendShell, []string{gitrepo.BackendShell, gitrepo.BackendEmbedded}, flagBackendDescriptionConstant)
	flagutils.AddToggleFlag(command.Flags(), &builder.ignoreNonCheckoutsFlagValue, flagIgnoreNonCheckoutsNameConstant, "", DefaultTraversalPolicy().IgnoreNonCheckoutDirectories, flagIgnoreNonCheckoutsDescriptionConstant)

	return command, nil
}

// validateArguments rejects anything but a single existing directory and prints usage on failure.
func (builder *CommandBuilder) validateArguments(command *cobra.Command, arguments []string) error {
	var validationError error
	if len(arguments) != expectedArgumentCountConstant {
		validationError = fmt.Errorf(argumentCountErrorTemplateConstant, len(arguments))
	} else {
		validationError = ValidateBuildDirectory(builder.resolveFileSystem(), builder.resolveHomeExpander().Expand(arguments[0]))
	}

	if validationError != nil {
		_ = command.Usage()
		return validationError
	}
	return nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	homeExpander := builder.resolveHomeExpander()
	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	configuration := builder.applyFlagOverrides(command, builder.resolveConfiguration())
	logger := builder.resolveLogger()
	fileSystem := builder.resolveFileSystem()

	inspector, inspectorError := builder.resolveInspector(configuration, logger)
	if inspectorError != nil {
		return inspectorError
	}

	extractor, extractorError := NewGitDescriptorExtractor(inspector, configuration.RemoteName)
	if extractorError != nil {
		return extractorError
	}

	locator := NewRepositoryLocator(fileSystem, configuration.CheckoutMarker, configuration.traversalPolicy())
	emitter := NewManifestEmitter(fileSystem)

	service, serviceError := NewService(fileSystem, locator, extractor, emitter, logger, configuration.OutputSuffix)
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Run(command.Context(), Options{
		BuildDirectory: homeExpander.Expand(arguments[0]),
		OutputPath:     homeExpander.Expand(outputPath),
	})
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	fmt.Fprintln(command.OutOrStdout(), result.OutputPath)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

// applyFlagOverrides lets explicitly set flags win over configuration values.
func (builder *CommandBuilder) applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration) CommandConfiguration {
	if command.Flags().Changed(flagRemoteNameConstant) {
		remoteName, _ := command.Flags().GetString(flagRemoteNameConstant)
		configuration.RemoteName = remoteName
	}
	if command.Flags().Changed(flagBackendNameConstant) {
		configuration.Backend = builder.backendFlagValue
	}
	if command.Flags().Changed(flagIgnoreNonCheckoutsNameConstant) {
		configuration.IgnoreNonCheckoutDirectories = builder.ignoreNonCheckoutsFlagValue
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander != nil {
		return builder.HomeExpander
	}
	return pathutils.NewHomeExpander()
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

func (builder *CommandBuilder) resolveFileSystem() afero.Fs {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return afero.NewOsFs()
}

func (builder *CommandBuilder) resolveInspector(configuration CommandConfiguration, logger *zap.Logger) (gitrepo.RepositoryInspector, error) {
	if builder.RepositoryInspector != nil {
		return builder.RepositoryInspector, nil
	}

	gitExecutor := builder.GitExecutor
	if gitExecutor == nil && configuration.Backend != gitrepo.BackendEmbedded {
		var eventsObserver execshell.CommandEventObserver
		if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
			eventsObserver = ui.NewConsoleCommandEventLogger(logger)
		}
		shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), eventsObserver)
		if executorError != nil {
			return nil, executorError
		}
		gitExecutor = shellExecutor
	}

	return gitrepo.NewRepositoryInspector(configuration.Backend, gitExecutor)
}
