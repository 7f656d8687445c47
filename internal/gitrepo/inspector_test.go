package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/packtools/internal/execshell"
	"github.com/temirov/packtools/internal/gitrepo"
)

const (
	testRepositoryPathConstant  = "/build/src/github.com/alice/tool"
	testRemoteNameConstant      = "origin"
	testRemoteURLConstant       = "https://github.com/alice/tool"
	testCommitHashConstant      = "abc1234567890abcdef1234567890abcdef12345"
	testReadmeFileNameConstant  = "README.md"
	testReadmeContentConstant   = "tool\n"
	testCommitMessageConstant   = "initial commit"
	testAuthorNameConstant      = "Alice"
	testAuthorEmailConstant     = "alice@example.com"
	testFilePermissionsConstant = 0o644
)

type scriptedGitExecutor struct {
	responses        map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	key := details.Arguments[0]
	if failure, exists := executor.failures[key]; exists {
		return execshell.ExecutionResult{}, failure
	}
	return executor.responses[key], nil
}

func TestNewRepositoryInspectorSelectsBackend(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}

	testCases := []struct {
		name          string
		backend       string
		executor      gitrepo.GitExecutor
		expectedType  any
		expectedError error
	}{
		{name: "default_backend", backend: "", executor: executor, expectedType: &gitrepo.ShellRepositoryInspector{}},
		{name: "shell_backend", backend: " Shell ", executor: executor, expectedType: &gitrepo.ShellRepositoryInspector{}},
		{name: "embedded_backend", backend: gitrepo.BackendEmbedded, expectedType: &gitrepo.EmbeddedRepositoryInspector{}},
		{name: "shell_backend_without_executor", backend: gitrepo.BackendShell, expectedError: gitrepo.ErrGitExecutorNotConfigured},
		{name: "unknown_backend", backend: "svn", expectedError: gitrepo.UnsupportedBackendError{Backend: "svn"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			inspector, creationError := gitrepo.NewRepositoryInspector(testCase.backend, testCase.executor)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, creationError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, creationError)
			require.IsType(testInstance, testCase.expectedType, inspector)
		})
	}
}

func TestShellRepositoryInspectorQueriesInRepositoryDirectory(testInstance *testing.T) {
	executor := &scriptedGitExecutor{
		responses: map[string]execshell.ExecutionResult{
			"rev-parse": {StandardOutput: testCommitHashConstant + "\n"},
			"remote":    {StandardOutput: "  " + testRemoteURLConstant + "\n"},
		},
	}

	inspector, creationError := gitrepo.NewShellRepositoryInspector(executor)
	require.NoError(testInstance, creationError)

	revision, revisionError := inspector.HeadRevision(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, revisionError)
	require.Equal(testInstance, testCommitHashConstant, revision)

	remoteURL, remoteError := inspector.RemoteURL(context.Background(), testRepositoryPathConstant, testRemoteNameConstant)
	require.NoError(testInstance, remoteError)
	require.Equal(testInstance, testRemoteURLConstant, remoteURL)

	require.Equal(testInstance, []execshell.CommandDetails{
		{Arguments: []string{"rev-parse", "HEAD"}, WorkingDirectory: testRepositoryPathConstant},
		{Arguments: []string{"remote", "get-url", testRemoteNameConstant}, WorkingDirectory: testRepositoryPathConstant},
	}, executor.recordedCommands)
}

func TestShellRepositoryInspectorPropagatesFailures(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"remote", "get-url", testRemoteNameConstant}}},
		Result:  execshell.ExecutionResult{ExitCode: 2, CombinedOutput: "error: No such remote 'origin'"},
	}
	executor := &scriptedGitExecutor{
		responses: map[string]execshell.ExecutionResult{"rev-parse": {}},
		failures:  map[string]error{"remote": commandFailure},
	}

	inspector, creationError := gitrepo.NewShellRepositoryInspector(executor)
	require.NoError(testInstance, creationError)

	_, remoteError := inspector.RemoteURL(context.Background(), testRepositoryPathConstant, testRemoteNameConstant)
	var reportedFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, remoteError, &reportedFailure)
	require.Equal(testInstance, 2, reportedFailure.Result.ExitCode)

	_, revisionError := inspector.HeadRevision(context.Background(), testRepositoryPathConstant)
	require.ErrorIs(testInstance, revisionError, gitrepo.EmptyInspectionResultError{Query: "git rev-parse HEAD", RepositoryPath: testRepositoryPathConstant})
}

func TestEmbeddedRepositoryInspectorReadsRepository(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testInstance, initError)

	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, testReadmeFileNameConstant), []byte(testReadmeContentConstant), testFilePermissionsConstant))
	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)
	_, addError := worktree.Add(testReadmeFileNameConstant)
	require.NoError(testInstance, addError)
	commitHash, commitError := worktree.Commit(testCommitMessageConstant, &git.CommitOptions{
		Author: &object.Signature{Name: testAuthorNameConstant, Email: testAuthorEmailConstant, When: time.Unix(0, 0)},
	})
	require.NoError(testInstance, commitError)

	inspector := gitrepo.NewEmbeddedRepositoryInspector()

	_, missingRemoteError := inspector.RemoteURL(context.Background(), repositoryPath, testRemoteNameConstant)
	require.ErrorIs(testInstance, missingRemoteError, git.ErrRemoteNotFound)

	_, remoteCreationError := repository.CreateRemote(&config.RemoteConfig{Name: testRemoteNameConstant, URLs: []string{testRemoteURLConstant}})
	require.NoError(testInstance, remoteCreationError)

	revision, revisionError := inspector.HeadRevision(context.Background(), repositoryPath)
	require.NoError(testInstance, revisionError)
	require.Equal(testInstance, commitHash.String(), revision)

	remoteURL, remoteError := inspector.RemoteURL(context.Background(), repositoryPath, testRemoteNameConstant)
	require.NoError(testInstance, remoteError)
	require.Equal(testInstance, testRemoteURLConstant, remoteURL)
}

func TestEmbeddedRepositoryInspectorRejectsNonRepository(testInstance *testing.T) {
	inspector := gitrepo.NewEmbeddedRepositoryInspector()

	_, revisionError := inspector.HeadRevision(context.Background(), testInstance.TempDir())
	require.ErrorIs(testInstance, revisionError, git.ErrRepositoryNotExists)
}
