package convert

import (
	"fmt"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

// headRevision returns the commit hash HEAD points at in the repository containing root
func headRevision(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", root, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(plumbing.HEAD))
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return hash.String(), nil
}
