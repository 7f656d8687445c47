package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// DefaultOutputSuffix is appended to the build directory name to form the default manifest file name.
	DefaultOutputSuffix = "-sources.json"

	manifestIndentConstant              = "  "
	manifestFilePermissionsConstant     = 0o644
	manifestEncodeErrorTemplateConstant = "unable to encode source manifest: %w"
	manifestWriteErrorTemplateConstant  = "unable to write source manifest %s: %w"
	manifestReadErrorTemplateConstant   = "unable to read source manifest %s: %w"
	manifestParseErrorTemplateConstant  = "unable to parse source manifest %s: %w"
)

// ManifestWriter persists descriptors.
type ManifestWriter interface {
	Emit(descriptors []SourceDescriptor, outputPath string) error
}

// ManifestEmitter writes descriptors as an indented JSON array.
type ManifestEmitter struct {
	fileSystem afero.Fs
}

// NewManifestEmitter constructs a ManifestEmitter over the provided filesystem.
func NewManifestEmitter(fileSystem afero.Fs) *ManifestEmitter {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &ManifestEmitter{fileSystem: fileSystem}
}

// Emit overwrites outputPath with the descriptors. The write is not atomic.
func (emitter *ManifestEmitter) Emit(descriptors []SourceDescriptor, outputPath string) error {
	if descriptors == nil {
		descriptors = []SourceDescriptor{}
	}

	var encodedManifest bytes.Buffer
	encoder := json.NewEncoder(&encodedManifest)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", manifestIndentConstant)
	if encodeError := encoder.Encode(descriptors); encodeError != nil {
		return fmt.Errorf(manifestEncodeErrorTemplateConstant, encodeError)
	}

	if writeError := afero.WriteFile(emitter.fileSystem, outputPath, encodedManifest.Bytes(), manifestFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(manifestWriteErrorTemplateConstant, outputPath, writeError)
	}
	return nil
}

// Read parses a manifest previously written by Emit.
func (emitter *ManifestEmitter) Read(manifestPath string) ([]SourceDescriptor, error) {
	manifestContent, readError := afero.ReadFile(emitter.fileSystem, manifestPath)
	if readError != nil {
		return nil, fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}

	var descriptors []SourceDescriptor
	if parseError := json.Unmarshal(manifestContent, &descriptors); parseError != nil {
		return nil, fmt.Errorf(manifestParseErrorTemplateConstant, manifestPath, parseError)
	}
	return descriptors, nil
}

// DefaultOutputPath names the manifest after the build directory, relative to the working directory.
func DefaultOutputPath(buildDirectory string, outputSuffix string) (string, error) {
	absoluteBuildDirectory, absoluteError := filepath.Abs(buildDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}
	if len(outputSuffix) == 0 {
		outputSuffix = DefaultOutputSuffix
	}
	return filepath.Base(absoluteBuildDirectory) + outputSuffix, nil
}
