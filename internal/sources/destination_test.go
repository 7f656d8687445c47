package sources_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/packtools/internal/sources"
)

func TestCheckoutDestinationSubtractsSourceRoot(testInstance *testing.T) {
	testCases := []struct {
		name                string
		checkout            sources.Checkout
		expectedDestination string
	}{
		{
			name:                "owner_repository_checkout",
			checkout:            sources.Checkout{Path: "/work/build/src/forge.example/owner/repo", SourceRoot: "/work/build/src"},
			expectedDestination: "src/forge.example/owner/repo",
		},
		{
			name:                "owner_level_checkout",
			checkout:            sources.Checkout{Path: "/work/build/src/gopkg.in/yaml.v3", SourceRoot: "/work/build/src"},
			expectedDestination: "src/gopkg.in/yaml.v3",
		},
		{
			name:                "build_directory_below_another_src",
			checkout:            sources.Checkout{Path: "/home/alice/src/app/.flatpak-builder/build/app/src/github.com/alice/tool", SourceRoot: "/home/alice/src/app/.flatpak-builder/build/app/src"},
			expectedDestination: "src/github.com/alice/tool",
		},
		{
			name:                "owner_named_src",
			checkout:            sources.Checkout{Path: "/build/src/github.com/src/tool", SourceRoot: "/build/src"},
			expectedDestination: "src/github.com/src/tool",
		},
		{
			name:                "repository_named_src",
			checkout:            sources.Checkout{Path: "/build/src/github.com/alice/src", SourceRoot: "/build/src"},
			expectedDestination: "src/github.com/alice/src",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			destination, destinationError := testCase.checkout.Destination()
			require.NoError(testInstance, destinationError)
			require.Equal(testInstance, testCase.expectedDestination, destination)
		})
	}
}

func TestCheckoutDestinationRejectsPathsOutsideSourceRoot(testInstance *testing.T) {
	testCases := []sources.Checkout{
		{Path: "/elsewhere/github.com/alice/tool", SourceRoot: "/build/src"},
		{Path: "/build/src", SourceRoot: "/build/src"},
		{Path: "/build/source/github.com/alice/tool", SourceRoot: "/build/src"},
	}

	for _, checkout := range testCases {
		testInstance.Run(checkout.Path, func(testInstance *testing.T) {
			_, destinationError := checkout.Destination()
			require.ErrorIs(testInstance, destinationError, sources.ErrDestinationAnchorMissing)
		})
	}
}

func TestDestinationFromAnchorUsesLastWholeSegment(testInstance *testing.T) {
	testCases := []struct {
		name                string
		checkoutPath        string
		expectedDestination string
	}{
		{name: "single_anchor", checkoutPath: "/work/build/src/forge.example/owner/repo", expectedDestination: "src/forge.example/owner/repo"},
		{name: "anchor_repeated_above_build", checkoutPath: "/home/alice/src/app/build/src/github.com/alice/tool", expectedDestination: "src/github.com/alice/tool"},
		{name: "suffix_is_not_an_anchor", checkoutPath: "/work/build/src/github.com/alice/mysrc/tool", expectedDestination: "src/github.com/alice/mysrc/tool"},
		{name: "relative_path", checkoutPath: "src/github.com/alice/tool", expectedDestination: "src/github.com/alice/tool"},
		{name: "trailing_separator", checkoutPath: "/build/src/github.com/alice/tool/", expectedDestination: "src/github.com/alice/tool"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			destination, destinationError := sources.DestinationFromAnchor(testCase.checkoutPath)
			require.NoError(testInstance, destinationError)
			require.Equal(testInstance, testCase.expectedDestination, destination)

			fromCheckout, checkoutError := sources.Checkout{Path: testCase.checkoutPath}.Destination()
			require.NoError(testInstance, checkoutError)
			require.Equal(testInstance, destination, fromCheckout)
		})
	}
}

// An owner literally named src defeats the anchor search; carrying the source root resolves it.
func TestDestinationFromAnchorAmbiguityIsResolvedBySourceRoot(testInstance *testing.T) {
	checkoutPath := "/build/src/github.com/src/tool"

	anchored, anchorError := sources.DestinationFromAnchor(checkoutPath)
	require.NoError(testInstance, anchorError)
	require.Equal(testInstance, "src/tool", anchored)

	structured, structuredError := sources.DestinationFromSourceRoot("/build/src", checkoutPath)
	require.NoError(testInstance, structuredError)
	require.Equal(testInstance, "src/github.com/src/tool", structured)
}

func TestDestinationFromAnchorRejectsUnanchoredPaths(testInstance *testing.T) {
	for _, checkoutPath := range []string{"/build/vendor/github.com/alice/tool", "/build/mysrc/tool", "/build/src"} {
		testInstance.Run(checkoutPath, func(testInstance *testing.T) {
			_, destinationError := sources.DestinationFromAnchor(checkoutPath)
			require.ErrorIs(testInstance, destinationError, sources.ErrDestinationAnchorMissing)
		})
	}
}
