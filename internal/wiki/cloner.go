package wiki

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
)

const (
	shallowCloneDepthConstant  = 1
	cloneErrorTemplateConstant = "unable to clone %s: %w"
)

// Cloner fetches a wiki repository into a local directory.
type Cloner interface {
	Clone(executionContext context.Context, repositoryURL string, destination string) error
}

// GitCloner clones with go-git, so no git binary is required.
type GitCloner struct {
	// Depth limits fetched history; zero fetches everything.
	Depth int
}

// NewGitCloner constructs a GitCloner that fetches only the latest commit.
func NewGitCloner() *GitCloner {
	return &GitCloner{Depth: shallowCloneDepthConstant}
}

// Clone checks out the default branch of repositoryURL into destination.
func (cloner *GitCloner) Clone(executionContext context.Context, repositoryURL string, destination string) error {
	_, cloneError := git.PlainCloneContext(executionContext, destination, false, &git.CloneOptions{
		URL:          repositoryURL,
		Depth:        cloner.Depth,
		SingleBranch: true,
	})
	if cloneError != nil {
		return fmt.Errorf(cloneErrorTemplateConstant, repositoryURL, cloneError)
	}
	return nil
}
