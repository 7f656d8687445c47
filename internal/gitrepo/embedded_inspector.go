package gitrepo

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
)

const (
	openRepositoryErrorTemplateConstant = "unable to open repository %s: %w"
	headLookupErrorTemplateConstant     = "unable to resolve HEAD in %s: %w"
	remoteLookupErrorTemplateConstant   = "unable to read %s remote in %s: %w"
	embeddedRemoteQueryTemplateConstant = "remote %s URL"
)

// EmbeddedRepositoryInspector reads repositories in-process with go-git.
type EmbeddedRepositoryInspector struct{}

// NewEmbeddedRepositoryInspector constructs an EmbeddedRepositoryInspector.
func NewEmbeddedRepositoryInspector() *EmbeddedRepositoryInspector {
	return &EmbeddedRepositoryInspector{}
}

// HeadRevision returns the full hash of the commit HEAD points at.
func (inspector *EmbeddedRepositoryInspector) HeadRevision(executionContext context.Context, repositoryPath string) (string, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}

	repository, openError := inspector.open(repositoryPath)
	if openError != nil {
		return "", openError
	}

	headReference, headError := repository.Head()
	if headError != nil {
		return "", fmt.Errorf(headLookupErrorTemplateConstant, repositoryPath, headError)
	}
	return headReference.Hash().String(), nil
}

// RemoteURL returns the first fetch URL of the named remote.
func (inspector *EmbeddedRepositoryInspector) RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}

	repository, openError := inspector.open(repositoryPath)
	if openError != nil {
		return "", openError
	}

	remote, remoteError := repository.Remote(remoteName)
	if remoteError != nil {
		return "", fmt.Errorf(remoteLookupErrorTemplateConstant, remoteName, repositoryPath, remoteError)
	}

	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 || len(remoteURLs[0]) == 0 {
		return "", EmptyInspectionResultError{Query: fmt.Sprintf(embeddedRemoteQueryTemplateConstant, remoteName), RepositoryPath: repositoryPath}
	}
	return remoteURLs[0], nil
}

func (inspector *EmbeddedRepositoryInspector) open(repositoryPath string) (*git.Repository, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, repositoryPath, openError)
	}
	return repository, nil
}
