package sources

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	locatorRequiredMessageConstant   = "checkout locator required"
	extractorRequiredMessageConstant = "descriptor extractor required"
	writerRequiredMessageConstant    = "manifest writer required"
	checkoutsLocatedMessageConstant  = "located checkouts"
	checkoutDescribedMessageConstant = "described checkout"
	manifestWrittenMessageConstant   = "source manifest written"
	logFieldBuildDirectoryConstant   = "build_directory"
	logFieldCheckoutCountConstant    = "checkout_count"
	logFieldCheckoutPathConstant     = "checkout_path"
	logFieldCommitConstant           = "commit"
	logFieldURLConstant              = "url"
	logFieldDestinationConstant      = "dest"
	logFieldOutputPathConstant       = "output_path"
	logFieldDescriptorCountConstant  = "descriptor_count"
)

var (
	errLocatorNotConfigured   = errors.New(locatorRequiredMessageConstant)
	errExtractorNotConfigured = errors.New(extractorRequiredMessageConstant)
	errWriterNotConfigured    = errors.New(writerRequiredMessageConstant)
)

// Options controls a single manifest generation run.
type Options struct {
	BuildDirectory string
	// OutputPath overrides the default <build-dir-basename><suffix> file name.
	OutputPath string
}

// Result summarizes a successful run.
type Result struct {
	OutputPath  string
	Descriptors []SourceDescriptor
}

// Service wires locating, describing, and emitting.
type Service struct {
	fileSystem   afero.Fs
	locator      CheckoutLocator
	extractor    DescriptorExtractor
	writer       ManifestWriter
	logger       *zap.Logger
	outputSuffix string
}

// NewService constructs a Service. A nil logger discards logs and a nil filesystem selects the OS.
func NewService(fileSystem afero.Fs, locator CheckoutLocator, extractor DescriptorExtractor, writer ManifestWriter, logger *zap.Logger, outputSuffix string) (*Service, error) {
	if locator == nil {
		return nil, errLocatorNotConfigured
	}
	if extractor == nil {
		return nil, errExtractorNotConfigured
	}
	if writer == nil {
		return nil, errWriterNotConfigured
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fileSystem:   fileSystem,
		locator:      locator,
		extractor:    extractor,
		writer:       writer,
		logger:       logger,
		outputSuffix: outputSuffix,
	}, nil
}

// Run describes every checkout under the build directory and writes the manifest.
// Any failure aborts the run before the manifest is touched.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	if validationError := ValidateBuildDirectory(service.fileSystem, options.BuildDirectory); validationError != nil {
		return Result{}, validationError
	}

	outputPath := options.OutputPath
	if len(outputPath) == 0 {
		defaultOutputPath, outputPathError := DefaultOutputPath(options.BuildDirectory, service.outputSuffix)
		if outputPathError != nil {
			return Result{}, outputPathError
		}
		outputPath = defaultOutputPath
	}

	checkouts, locateError := service.locator.LocateCheckouts(options.BuildDirectory)
	if locateError != nil {
		return Result{}, locateError
	}

	service.logger.Info(
		checkoutsLocatedMessageConstant,
		zap.String(logFieldBuildDirectoryConstant, options.BuildDirectory),
		zap.Int(logFieldCheckoutCountConstant, len(checkouts)),
	)

	descriptors := make([]SourceDescriptor, 0, len(checkouts))
	for _, checkout := range checkouts {
		if contextError := executionContext.Err(); contextError != nil {
			return Result{}, contextError
		}

		descriptor, extractError := service.extractor.Extract(executionContext, checkout)
		if extractError != nil {
			return Result{}, extractError
		}

		service.logger.Debug(
			checkoutDescribedMessageConstant,
			zap.String(logFieldCheckoutPathConstant, checkout.Path),
			zap.String(logFieldURLConstant, descriptor.URL),
			zap.String(logFieldCommitConstant, descriptor.Commit),
			zap.String(logFieldDestinationConstant, descriptor.Dest),
		)
		descriptors = append(descriptors, descriptor)
	}

	if emitError := service.writer.Emit(descriptors, outputPath); emitError != nil {
		return Result{}, emitError
	}

	service.logger.Info(
		manifestWrittenMessageConstant,
		zap.String(logFieldOutputPathConstant, outputPath),
		zap.Int(logFieldDescriptorCountConstant, len(descriptors)),
	)

	return Result{OutputPath: outputPath, Descriptors: descriptors}, nil
}

// ValidateBuildDirectory confirms the path names an existing directory.
func ValidateBuildDirectory(fileSystem afero.Fs, buildDirectory string) error {
	if len(buildDirectory) == 0 {
		return ErrBuildDirectoryInvalid
	}
	directoryInfo, statError := fileSystem.Stat(filepath.Clean(buildDirectory))
	if statError != nil || !directoryInfo.IsDir() {
		return qualifyWithPath(ErrBuildDirectoryInvalid, buildDirectory)
	}
	return nil
}
