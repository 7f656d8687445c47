package sources

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultCheckoutMarker is the metadata directory that identifies a git checkout.
const DefaultCheckoutMarker = ".git"

// TraversalPolicy controls how the locator treats unexpected layout.
type TraversalPolicy struct {
	// IgnoreNonCheckoutDirectories skips third-level directories that are not checkouts.
	// When false each one fails the traversal with UnexpectedDirectoryError.
	IgnoreNonCheckoutDirectories bool
}

// DefaultTraversalPolicy tolerates owners without checkouts.
func DefaultTraversalPolicy() TraversalPolicy {
	return TraversalPolicy{IgnoreNonCheckoutDirectories: true}
}

// CheckoutLocator finds checkouts beneath a build directory.
type CheckoutLocator interface {
	LocateCheckouts(buildDirectory string) ([]Checkout, error)
}

// RepositoryLocator walks src/<domain>/<owner>[/<repository>] looking for checkouts.
type RepositoryLocator struct {
	fileSystem     afero.Fs
	checkoutMarker string
	policy         TraversalPolicy
}

// NewRepositoryLocator constructs a RepositoryLocator. An empty marker selects DefaultCheckoutMarker.
func NewRepositoryLocator(fileSystem afero.Fs, checkoutMarker string, policy TraversalPolicy) *RepositoryLocator {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if len(checkoutMarker) == 0 {
		checkoutMarker = DefaultCheckoutMarker
	}
	return &RepositoryLocator{
		fileSystem:     fileSystem,
		checkoutMarker: checkoutMarker,
		policy:         policy,
	}
}

// LocateCheckouts returns every checkout found at the owner level or one level below it,
// in domain, owner, repository listing order.
func (locator *RepositoryLocator) LocateCheckouts(buildDirectory string) ([]Checkout, error) {
	absoluteBuildDirectory, absoluteError := filepath.Abs(buildDirectory)
	if absoluteError != nil {
		return nil, absoluteError
	}

	sourceRoot := filepath.Join(absoluteBuildDirectory, SourceDirectoryName)
	if !locator.isDirectory(sourceRoot) {
		return nil, qualifyWithPath(ErrSourceDirectoryMissing, sourceRoot)
	}

	domainDirectories, domainListingError := locator.listSubdirectories(sourceRoot)
	if domainListingError != nil {
		return nil, domainListingError
	}

	var checkouts []Checkout
	for _, domainDirectory := range domainDirectories {
		ownerDirectories, ownerListingError := locator.listSubdirectories(domainDirectory)
		if ownerListingError != nil {
			return nil, ownerListingError
		}

		for _, ownerDirectory := range ownerDirectories {
			if locator.isCheckout(ownerDirectory) {
				checkouts = append(checkouts, Checkout{Path: ownerDirectory, SourceRoot: sourceRoot})
				continue
			}

			repositoryDirectories, repositoryListingError := locator.listSubdirectories(ownerDirectory)
			if repositoryListingError != nil {
				return nil, repositoryListingError
			}

			for _, repositoryDirectory := range repositoryDirectories {
				if locator.isCheckout(repositoryDirectory) {
					checkouts = append(checkouts, Checkout{Path: repositoryDirectory, SourceRoot: sourceRoot})
					continue
				}
				if !locator.policy.IgnoreNonCheckoutDirectories {
					return nil, UnexpectedDirectoryError{Path: repositoryDirectory}
				}
			}
		}
	}

	return checkouts, nil
}

func (locator *RepositoryLocator) isCheckout(directory string) bool {
	return locator.isDirectory(filepath.Join(directory, locator.checkoutMarker))
}

func (locator *RepositoryLocator) isDirectory(path string) bool {
	fileInfo, statError := locator.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}

// listSubdirectories returns child directories sorted by name; symbolic links are followed.
func (locator *RepositoryLocator) listSubdirectories(directory string) ([]string, error) {
	entries, readError := afero.ReadDir(locator.fileSystem, directory)
	if readError != nil {
		return nil, readError
	}

	subdirectories := make([]string, 0, len(entries))
	for _, entry := range entries {
		entryPath := filepath.Join(directory, entry.Name())
		switch {
		case entry.IsDir():
			subdirectories = append(subdirectories, entryPath)
		case entry.Mode()&os.ModeSymlink != 0 && locator.isDirectory(entryPath):
			subdirectories = append(subdirectories, entryPath)
		}
	}
	return subdirectories, nil
}
