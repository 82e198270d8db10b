// Package gitsync enforces the template-repository invariant: imports are
// pinned to a template version, so the repository must be checked out on the
// branch matching that version and be level with its remote before any stack
// mutation starts.
package gitsync

import (
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
)

const defaultRemote = "origin"

// Verify checks that the repository at dir has branch checked out and that
// the local HEAD matches the remote-tracking ref for that branch.
func Verify(dir, branch string) error {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return errors.Wrapf(err, "opening template repository at %s", dir)
	}

	head, err := repo.Head()
	if err != nil {
		return errors.Wrap(err, "reading HEAD of template repository")
	}
	if !head.Name().IsBranch() {
		return errors.Errorf("template repository is in a detached HEAD state; check out branch %q", branch)
	}
	current := head.Name().Short()
	if current != branch {
		return errors.Errorf("template repository is on branch %q but the VERSION file expects %q", current, branch)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(defaultRemote, branch), true)
	if err != nil {
		return errors.Wrapf(err, "no remote-tracking ref %s/%s; fetch before importing", defaultRemote, branch)
	}
	if remoteRef.Hash() != head.Hash() {
		return errors.Errorf(
			"template repository branch %q is out of sync with %s (local %s, remote %s); pull or push first",
			branch, defaultRemote, head.Hash().String()[:8], remoteRef.Hash().String()[:8],
		)
	}
	return nil
}
