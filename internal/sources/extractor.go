package sources

import (
	"context"
	"errors"

	"github.com/temirov/packtools/internal/gitrepo"
)

const (
	// DefaultRemoteName is the remote whose fetch URL is recorded.
	DefaultRemoteName = "origin"

	inspectorRequiredMessageConstant = "repository inspector required"
)

// ErrRepositoryInspectorNotConfigured indicates the extractor was built without an inspector.
var ErrRepositoryInspectorNotConfigured = errors.New(inspectorRequiredMessageConstant)

// DescriptorExtractor turns a checkout into a manifest entry.
type DescriptorExtractor interface {
	Extract(executionContext context.Context, checkout Checkout) (SourceDescriptor, error)
}

// GitDescriptorExtractor describes checkouts through a RepositoryInspector.
type GitDescriptorExtractor struct {
	inspector  gitrepo.RepositoryInspector
	remoteName string
}

// NewGitDescriptorExtractor constructs a GitDescriptorExtractor. An empty remote selects DefaultRemoteName.
func NewGitDescriptorExtractor(inspector gitrepo.RepositoryInspector, remoteName string) (*GitDescriptorExtractor, error) {
	if inspector == nil {
		return nil, ErrRepositoryInspectorNotConfigured
	}
	if len(remoteName) == 0 {
		remoteName = DefaultRemoteName
	}
	return &GitDescriptorExtractor{inspector: inspector, remoteName: remoteName}, nil
}

// Extract records the HEAD commit, the remote URL, and the destination of the checkout.
func (extractor *GitDescriptorExtractor) Extract(executionContext context.Context, checkout Checkout) (SourceDescriptor, error) {
	destination, destinationError := checkout.Destination()
	if destinationError != nil {
		return SourceDescriptor{}, destinationError
	}

	commit, commitError := extractor.inspector.HeadRevision(executionContext, checkout.Path)
	if commitError != nil {
		return SourceDescriptor{}, CheckoutInspectionError{Path: checkout.Path, Cause: commitError}
	}

	remoteURL, remoteError := extractor.inspector.RemoteURL(executionContext, checkout.Path, extractor.remoteName)
	if remoteError != nil {
		return SourceDescriptor{}, CheckoutInspectionError{Path: checkout.Path, Cause: remoteError}
	}

	return SourceDescriptor{
		Type:   SourceTypeGit,
		URL:    remoteURL,
		Commit: commit,
		Dest:   destination,
	}, nil
}
