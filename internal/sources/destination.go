package sources

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	anchorSegmentConstant    = SourceDirectoryName + "/"
	pathSeparatorConstant    = "/"
	parentDirectoryConstant  = ".."
	currentDirectoryConstant = "."
)

// Destination returns the manifest-relative unpack path of the checkout.
// Checkouts that know their source root are resolved by path subtraction; the rest fall back to DestinationFromAnchor.
func (checkout Checkout) Destination() (string, error) {
	if len(checkout.SourceRoot) == 0 {
		return DestinationFromAnchor(checkout.Path)
	}
	return DestinationFromSourceRoot(checkout.SourceRoot, checkout.Path)
}

// DestinationFromSourceRoot expresses checkoutPath relative to sourceRoot and prefixes it with src.
func DestinationFromSourceRoot(sourceRoot string, checkoutPath string) (string, error) {
	relativePath, relativeError := filepath.Rel(filepath.Clean(sourceRoot), filepath.Clean(checkoutPath))
	if relativeError != nil {
		return "", qualifyWithPath(ErrDestinationAnchorMissing, checkoutPath)
	}

	slashRelativePath := filepath.ToSlash(relativePath)
	if slashRelativePath == currentDirectoryConstant ||
		slashRelativePath == parentDirectoryConstant ||
		strings.HasPrefix(slashRelativePath, parentDirectoryConstant+pathSeparatorConstant) {
		return "", qualifyWithPath(ErrDestinationAnchorMissing, checkoutPath)
	}

	return path.Join(SourceDirectoryName, slashRelativePath), nil
}

// DestinationFromAnchor keeps checkoutPath from the last whole "src/" segment onward.
// A "src/" that is only the tail of a longer name such as "mysrc/" is not an anchor.
func DestinationFromAnchor(checkoutPath string) (string, error) {
	slashPath := filepath.ToSlash(filepath.Clean(checkoutPath))

	searchLimit := len(slashPath)
	for searchLimit > 0 {
		anchorIndex := strings.LastIndex(slashPath[:searchLimit], anchorSegmentConstant)
		if anchorIndex < 0 {
			break
		}
		if anchorIndex == 0 || slashPath[anchorIndex-1] == pathSeparatorConstant[0] {
			return slashPath[anchorIndex:], nil
		}
		searchLimit = anchorIndex
	}

	return "", qualifyWithPath(ErrDestinationAnchorMissing, checkoutPath)
}
