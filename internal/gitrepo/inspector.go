package gitrepo

import (
	"context"
	"fmt"
	"strings"
)

const (
	// BackendShell selects the git binary backend.
	BackendShell = "shell"
	// BackendEmbedded selects the in-process go-git backend.
	BackendEmbedded = "embedded"

	unsupportedBackendTemplateConstant    = "unsupported repository inspection backend %q"
	executorRequiredMessageConstant       = "git executor required for the shell backend"
	emptyInspectionResultTemplateConstant = "%s produced no output in %s"
)

// RepositoryInspector answers read-only questions about a git working copy.
type RepositoryInspector interface {
	HeadRevision(executionContext context.Context, repositoryPath string) (string, error)
	RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// UnsupportedBackendError indicates an unknown backend name was configured.
type UnsupportedBackendError struct {
	Backend string
}

// Error names the rejected backend.
func (backendError UnsupportedBackendError) Error() string {
	return fmt.Sprintf(unsupportedBackendTemplateConstant, backendError.Backend)
}

// EmptyInspectionResultError indicates a query succeeded but yielded nothing usable.
type EmptyInspectionResultError struct {
	Query          string
	RepositoryPath string
}

// Error names the query and the repository.
func (emptyError EmptyInspectionResultError) Error() string {
	return fmt.Sprintf(emptyInspectionResultTemplateConstant, emptyError.Query, emptyError.RepositoryPath)
}

// NewRepositoryInspector builds the inspector for the named backend. An empty name selects the shell backend.
func NewRepositoryInspector(backend string, executor GitExecutor) (RepositoryInspector, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendShell:
		return NewShellRepositoryInspector(executor)
	case BackendEmbedded:
		return NewEmbeddedRepositoryInspector(), nil
	default:
		return nil, UnsupportedBackendError{Backend: backend}
	}
}
