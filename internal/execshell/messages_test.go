package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessagesForRevisionLookup(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"rev-parse", "HEAD"},
			WorkingDirectory: "/build/src/github.com/alice/tool",
		},
	}

	require.Equal(t, "Resolving HEAD in /build/src/github.com/alice/tool", formatter.BuildStartedMessage(command))
	require.Equal(t, "HEAD in /build/src/github.com/alice/tool resolved to abc123", formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "abc123\n"}))
	require.Equal(t, "HEAD in /build/src/github.com/alice/tool did not resolve to a revision", formatter.BuildSuccessMessage(command, ExecutionResult{}))
	require.Equal(t, "Failed to resolve HEAD in /build/src/github.com/alice/tool (exit code 128: fatal: bad revision)", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: bad revision\n"}))
}

func TestBuildMessagesForRemoteLookup(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments: []string{"remote", "get-url", "origin"},
		},
	}

	require.Equal(t, "Checking origin remote for current directory", formatter.BuildStartedMessage(command))
	require.Equal(t, "origin remote for current directory points to https://github.com/alice/tool", formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "https://github.com/alice/tool\n"}))
	require.Equal(t, "Unable to read origin remote for current directory: boom", formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
}

func TestBuildMessagesFallsBackToGenericLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"status", "--porcelain"},
			WorkingDirectory: "/repo",
		},
	}

	require.Equal(t, "Running git status --porcelain (in /repo)", formatter.BuildStartedMessage(command))
	require.Equal(t, "git status --porcelain (in /repo) failed with exit code 1", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1}))
	require.Equal(t, "git status --porcelain (in /repo) failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}
