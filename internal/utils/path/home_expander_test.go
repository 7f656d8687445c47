package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/packtools/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/alice"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		candidate    string
		expectedPath string
	}{
		{name: "bare_tilde", candidate: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_slash", candidate: "~/build/amfora", expectedPath: filepath.Join(testHomeDirectoryConstant, "build", "amfora")},
		{name: "other_user_untouched", candidate: "~bob/build", expectedPath: "~bob/build"},
		{name: "relative_untouched", candidate: "build", expectedPath: "build"},
		{name: "absolute_untouched", candidate: "/srv/build", expectedPath: "/srv/build"},
		{name: "empty_untouched", candidate: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidate))
		})
	}
}

func TestHomeExpanderWithoutHomeDirectory(testInstance *testing.T) {
	providerCalls := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		providerCalls++
		return "", errors.New("no home")
	})

	require.Equal(testInstance, "~/build", expander.Expand("~/build"))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, providerCalls)
}

func TestHomeExpanderExpandAll(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	require.Equal(testInstance,
		[]string{".", filepath.Join(testHomeDirectoryConstant, ".config", "packtools")},
		expander.ExpandAll([]string{".", " ", "~/.config/packtools"}))
}
