package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/packtools/internal/execshell"
)

const (
	gitRevParseSubcommandConstant = "rev-parse"
	gitHeadReferenceConstant      = "HEAD"
	gitRemoteSubcommandConstant   = "remote"
	gitGetURLSubcommandConstant   = "get-url"
	revisionQueryLabelConstant    = "git rev-parse HEAD"
	remoteURLQueryLabelConstant   = "git remote get-url"
	queryLabelSeparatorConstant   = " "
)

// GitExecutor runs git subcommands in an explicit working directory.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrGitExecutorNotConfigured indicates the shell inspector was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorRequiredMessageConstant)

// ShellRepositoryInspector queries repositories through the git binary.
type ShellRepositoryInspector struct {
	executor GitExecutor
}

// NewShellRepositoryInspector constructs a ShellRepositoryInspector.
func NewShellRepositoryInspector(executor GitExecutor) (*ShellRepositoryInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &ShellRepositoryInspector{executor: executor}, nil
}

// HeadRevision returns the commit HEAD points at.
func (inspector *ShellRepositoryInspector) HeadRevision(executionContext context.Context, repositoryPath string) (string, error) {
	return inspector.query(executionContext, repositoryPath, revisionQueryLabelConstant, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
}

// RemoteURL returns the fetch URL configured for the named remote.
func (inspector *ShellRepositoryInspector) RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	queryLabel := remoteURLQueryLabelConstant + queryLabelSeparatorConstant + remoteName
	return inspector.query(executionContext, repositoryPath, queryLabel, gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, remoteName)
}

func (inspector *ShellRepositoryInspector) query(executionContext context.Context, repositoryPath string, queryLabel string, arguments ...string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", executionError
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedOutput) == 0 {
		return "", EmptyInspectionResultError{Query: queryLabel, RepositoryPath: repositoryPath}
	}
	return trimmedOutput, nil
}
