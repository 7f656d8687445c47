package sources_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/packtools/internal/gitrepo"
	"github.com/temirov/packtools/internal/sources"
)

const (
	testBuildDirectoryNameConstant  = "build"
	testDefaultManifestNameConstant = "build-sources.json"
	testAliceRemoteURLConstant      = "https://github.com/alice/tool"
	testCommitMessageConstant       = "initial commit"
	testAuthorNameConstant          = "Alice"
	testAuthorEmailConstant         = "alice@example.com"
)

func createCheckout(testInstance *testing.T, checkoutPath string, remoteURL string) string {
	testInstance.Helper()

	require.NoError(testInstance, os.MkdirAll(checkoutPath, 0o755))
	repository, initError := git.PlainInit(checkoutPath, false)
	require.NoError(testInstance, initError)

	require.NoError(testInstance, os.WriteFile(filepath.Join(checkoutPath, "README.md"), []byte("tool\n"), 0o644))
	worktree, worktreeError := repository.Worktree()
	require.NoError(testInstance, worktreeError)
	_, addError := worktree.Add("README.md")
	require.NoError(testInstance, addError)

	commitHash, commitError := worktree.Commit(testCommitMessageConstant, &git.CommitOptions{
		Author: &object.Signature{Name: testAuthorNameConstant, Email: testAuthorEmailConstant, When: time.Unix(1700000000, 0)},
	})
	require.NoError(testInstance, commitError)

	if len(remoteURL) > 0 {
		_, remoteError := repository.CreateRemote(&config.RemoteConfig{Name: sources.DefaultRemoteName, URLs: []string{remoteURL}})
		require.NoError(testInstance, remoteError)
	}
	return commitHash.String()
}

func embeddedConfiguration() sources.CommandConfiguration {
	configuration := sources.DefaultCommandConfiguration()
	configuration.Backend = gitrepo.BackendEmbedded
	return configuration
}

func TestSourcesCommandWritesDefaultManifest(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	changeWorkingDirectory(testInstance, workingDirectory)

	buildDirectory := filepath.Join(workingDirectory, testBuildDirectoryNameConstant)
	commit := createCheckout(testInstance, filepath.Join(buildDirectory, "src", "github.com", "alice", "tool"), testAliceRemoteURLConstant)

	builder := sources.CommandBuilder{ConfigurationProvider: embeddedConfiguration}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var standardOutput bytes.Buffer
	command.SetOut(&standardOutput)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{testBuildDirectoryNameConstant})
	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, testDefaultManifestNameConstant, strings.TrimSpace(standardOutput.String()))

	descriptors, readError := sources.NewManifestEmitter(nil).Read(filepath.Join(workingDirectory, testDefaultManifestNameConstant))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, []sources.SourceDescriptor{{
		Type:   sources.SourceTypeGit,
		URL:    testAliceRemoteURLConstant,
		Commit: commit,
		Dest:   "src/github.com/alice/tool",
	}}, descriptors)
}

func TestSourcesCommandHonorsOutputFlag(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	buildDirectory := filepath.Join(workingDirectory, testBuildDirectoryNameConstant)
	createCheckout(testInstance, filepath.Join(buildDirectory, "src", "example.org", "bob"), "https://example.org/bob")
	outputPath := filepath.Join(workingDirectory, "custom.json")

	builder := sources.CommandBuilder{ConfigurationProvider: embeddedConfiguration}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{buildDirectory, "-o", outputPath})
	require.NoError(testInstance, command.Execute())

	descriptors, readError := sources.NewManifestEmitter(nil).Read(outputPath)
	require.NoError(testInstance, readError)
	require.Len(testInstance, descriptors, 1)
	require.Equal(testInstance, "src/example.org/bob", descriptors[0].Dest)
}

func TestSourcesCommandAbortsWithoutOriginRemote(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	changeWorkingDirectory(testInstance, workingDirectory)

	buildDirectory := filepath.Join(workingDirectory, testBuildDirectoryNameConstant)
	createCheckout(testInstance, filepath.Join(buildDirectory, "src", "github.com", "alice", "tool"), testAliceRemoteURLConstant)
	createCheckout(testInstance, filepath.Join(buildDirectory, "src", "github.com", "carol", "orphan"), "")

	builder := sources.CommandBuilder{ConfigurationProvider: embeddedConfiguration}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{testBuildDirectoryNameConstant})
	executionError := command.Execute()
	require.Error(testInstance, executionError)

	var inspectionError sources.CheckoutInspectionError
	require.ErrorAs(testInstance, executionError, &inspectionError)
	require.True(testInstance, strings.HasSuffix(inspectionError.Path, filepath.Join("carol", "orphan")))

	_, statError := os.Stat(filepath.Join(workingDirectory, testDefaultManifestNameConstant))
	require.ErrorIs(testInstance, statError, os.ErrNotExist)
}

func TestSourcesCommandValidatesArguments(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	regularFile := filepath.Join(workingDirectory, "file.txt")
	require.NoError(testInstance, os.WriteFile(regularFile, []byte("x"), 0o644))

	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "no_arguments", arguments: []string{}},
		{name: "too_many_arguments", arguments: []string{workingDirectory, workingDirectory}},
		{name: "missing_directory", arguments: []string{filepath.Join(workingDirectory, "absent")}},
		{name: "file_instead_of_directory", arguments: []string{regularFile}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := sources.CommandBuilder{ConfigurationProvider: embeddedConfiguration}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			var usageOutput bytes.Buffer
			command.SetOut(&usageOutput)
			command.SetErr(&usageOutput)
			command.SetArgs(testCase.arguments)

			require.Error(testInstance, command.Execute())
			require.Contains(testInstance, usageOutput.String(), "Usage:")
		})
	}
}

func TestSourcesCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	buildDirectory := filepath.Join(workingDirectory, testBuildDirectoryNameConstant)
	createCheckout(testInstance, filepath.Join(buildDirectory, "src", "github.com", "alice", "tool"), testAliceRemoteURLConstant)
	require.NoError(testInstance, os.MkdirAll(filepath.Join(buildDirectory, "src", "github.com", "alice", "notes"), 0o755))
	outputPath := filepath.Join(workingDirectory, "manifest.json")

	testCases := []struct {
		name        string
		arguments   []string
		expectError error
	}{
		{
			name:      "embedded_backend_from_flag",
			arguments: []string{buildDirectory, "--backend", "embedded", "-o", outputPath},
		},
		{
			name:        "strict_layout_from_flag",
			arguments:   []string{buildDirectory, "--backend=embedded", "--ignore-non-checkout-directories=no", "-o", outputPath},
			expectError: sources.UnexpectedDirectoryError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := sources.CommandBuilder{}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)
			executionError := command.Execute()

			if testCase.expectError == nil {
				require.NoError(testInstance, executionError)
				descriptors, readError := sources.NewManifestEmitter(nil).Read(outputPath)
				require.NoError(testInstance, readError)
				require.Len(testInstance, descriptors, 1)
				return
			}

			var unexpectedDirectoryError sources.UnexpectedDirectoryError
			require.ErrorAs(testInstance, executionError, &unexpectedDirectoryError)
			require.True(testInstance, strings.HasSuffix(unexpectedDirectoryError.Path, filepath.Join("alice", "notes")))
		})
	}
}
