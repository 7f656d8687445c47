package sources

import (
	"errors"
	"fmt"
)

const (
	// SourceTypeGit tags descriptors that point at a git revision.
	SourceTypeGit = "git"
	// SourceDirectoryName is the build-directory child that holds vendored checkouts.
	SourceDirectoryName = "src"

	sourceDirectoryMissingMessageConstant   = "build directory has no src directory"
	destinationAnchorMissingMessageConstant = "checkout path is not anchored in a src directory"
	buildDirectoryInvalidMessageConstant    = "build directory must be an existing directory"
	unexpectedDirectoryTemplateConstant     = "%s is neither a checkout nor a directory of checkouts"
	checkoutInspectionErrorTemplateConstant = "unable to describe checkout %s: %v"
	pathQualifiedErrorTemplateConstant      = "%w: %s"
)

// ErrSourceDirectoryMissing indicates the build directory lacks a src directory.
var ErrSourceDirectoryMissing = errors.New(sourceDirectoryMissingMessageConstant)

// ErrDestinationAnchorMissing indicates a checkout path cannot be expressed relative to src.
var ErrDestinationAnchorMissing = errors.New(destinationAnchorMissingMessageConstant)

// ErrBuildDirectoryInvalid indicates the requested build directory does not exist or is not a directory.
var ErrBuildDirectoryInvalid = errors.New(buildDirectoryInvalidMessageConstant)

// Checkout is a git working copy found beneath a build directory.
type Checkout struct {
	// Path is the absolute checkout directory.
	Path string
	// SourceRoot is the absolute src directory the checkout was found under.
	SourceRoot string
}

// SourceDescriptor pins one checkout in the manifest.
type SourceDescriptor struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Commit string `json:"commit"`
	Dest   string `json:"dest"`
}

// UnexpectedDirectoryError reports a non-checkout directory where strict traversal expects a checkout.
type UnexpectedDirectoryError struct {
	Path string
}

// Error names the offending directory.
func (directoryError UnexpectedDirectoryError) Error() string {
	return fmt.Sprintf(unexpectedDirectoryTemplateConstant, directoryError.Path)
}

// CheckoutInspectionError wraps a failure to describe a single checkout.
type CheckoutInspectionError struct {
	Path  string
	Cause error
}

// Error names the checkout and the cause.
func (inspectionError CheckoutInspectionError) Error() string {
	return fmt.Sprintf(checkoutInspectionErrorTemplateConstant, inspectionError.Path, inspectionError.Cause)
}

// Unwrap exposes the underlying failure.
func (inspectionError CheckoutInspectionError) Unwrap() error {
	return inspectionError.Cause
}

func qualifyWithPath(sentinel error, path string) error {
	return fmt.Errorf(pathQualifiedErrorTemplateConstant, sentinel, path)
}
