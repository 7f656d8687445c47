package wiki

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	temporaryClonePrefixConstant            = "packtools-wiki-"
	directoryPermissionsConstant            = 0o755
	repositoryRequiredMessageConstant       = "wiki repository or source directory required"
	clonerRequiredMessageConstant           = "wiki cloner required"
	assemblerRequiredMessageConstant        = "wiki assembler required"
	temporaryDirectoryErrorTemplateConstant = "unable to create temporary clone directory: %w"
	outputDirectoryErrorTemplateConstant    = "unable to create output directory %s: %w"
	cloningWikiMessageConstant              = "cloning wiki"
	wikiConvertedMessageConstant            = "wiki converted"
	temporaryCleanupFailedMessageConstant   = "unable to remove temporary clone"
	logFieldRepositoryConstant              = "repository"
	logFieldDestinationConstant             = "destination"
	logFieldSourceDirectoryConstant         = "source_directory"
	logFieldOutputDirectoryConstant         = "output_directory"
	logFieldPageCountConstant               = "page_count"
	logFieldAssetCountConstant              = "asset_count"
)

var (
	// ErrRepositoryNotConfigured indicates that neither a repository URL nor a local source was supplied.
	ErrRepositoryNotConfigured = errors.New(repositoryRequiredMessageConstant)

	errClonerNotConfigured    = errors.New(clonerRequiredMessageConstant)
	errAssemblerNotConfigured = errors.New(assemblerRequiredMessageConstant)
)

// Options controls a single conversion run.
type Options struct {
	Repository string
	// SourceDirectory skips cloning and converts an existing checkout.
	SourceDirectory string
	OutputDirectory string
}

// Service clones a wiki when needed and assembles the capsule.
type Service struct {
	fileSystem afero.Fs
	cloner     Cloner
	assembler  *Assembler
	logger     *zap.Logger
}

// NewService constructs a Service.
func NewService(fileSystem afero.Fs, cloner Cloner, assembler *Assembler, logger *zap.Logger) (*Service, error) {
	if cloner == nil {
		return nil, errClonerNotConfigured
	}
	if assembler == nil {
		return nil, errAssemblerNotConfigured
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fileSystem: fileSystem, cloner: cloner, assembler: assembler, logger: logger}, nil
}

// Run converts the wiki described by options. A temporary clone is always removed afterwards.
func (service *Service) Run(executionContext context.Context, options Options) (AssemblyResult, error) {
	outputDirectory := valueOrDefault(options.OutputDirectory, DefaultOutputDirectory)
	sourceDirectory := strings.TrimSpace(options.SourceDirectory)

	if len(sourceDirectory) == 0 {
		repository := strings.TrimSpace(options.Repository)
		if len(repository) == 0 {
			return AssemblyResult{}, ErrRepositoryNotConfigured
		}

		temporaryDirectory, temporaryError := afero.TempDir(service.fileSystem, "", temporaryClonePrefixConstant)
		if temporaryError != nil {
			return AssemblyResult{}, fmt.Errorf(temporaryDirectoryErrorTemplateConstant, temporaryError)
		}
		defer service.removeTemporaryClone(temporaryDirectory)

		service.logger.Info(
			cloningWikiMessageConstant,
			zap.String(logFieldRepositoryConstant, repository),
			zap.String(logFieldDestinationConstant, temporaryDirectory),
		)
		if cloneError := service.cloner.Clone(executionContext, repository, temporaryDirectory); cloneError != nil {
			return AssemblyResult{}, cloneError
		}
		sourceDirectory = temporaryDirectory
	}

	if mkdirError := service.fileSystem.MkdirAll(outputDirectory, directoryPermissionsConstant); mkdirError != nil {
		return AssemblyResult{}, fmt.Errorf(outputDirectoryErrorTemplateConstant, outputDirectory, mkdirError)
	}

	result, assembleError := service.assembler.Assemble(sourceDirectory, outputDirectory)
	if assembleError != nil {
		return AssemblyResult{}, assembleError
	}

	service.logger.Info(
		wikiConvertedMessageConstant,
		zap.String(logFieldSourceDirectoryConstant, sourceDirectory),
		zap.String(logFieldOutputDirectoryConstant, outputDirectory),
		zap.Int(logFieldPageCountConstant, len(result.Pages)),
		zap.Int(logFieldAssetCountConstant, len(result.Assets)),
	)
	return result, nil
}

func (service *Service) removeTemporaryClone(temporaryDirectory string) {
	if removeError := service.fileSystem.RemoveAll(temporaryDirectory); removeError != nil {
		service.logger.Warn(temporaryCleanupFailedMessageConstant, zap.String(logFieldDestinationConstant, temporaryDirectory), zap.Error(removeError))
	}
}
